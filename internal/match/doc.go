// Package match provides identifier normalization, edit distance, type
// compatibility scoring and candidate ranking used to pair DTO properties
// with entity properties and mechanism parameters.
//
// Key functions:
//   - NormalizeIdent: folds an identifier for fuzzy comparison
//   - NameMode.Same: the name equality used when pairing properties
//   - DisplayName: splits a CamelCase type name into words
//   - ScoreReflectCompatibility: compatibility ladder over reflect.Type
//   - ScoreTypeCompatibility: the same ladder over go/types
//   - RankCandidates / Suggest: "did you mean" ranking
package match
