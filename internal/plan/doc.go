// Package plan builds the mapping plans of a DTO/entity pair.
//
// Build pipeline:
//  1. Read plan: entity -> DTO copy over same-named, compatible properties
//  2. Save plan: a property copy for Standard entities, an argument binding
//     for constructor and factory entities, Unsupported for ReadOnly ones
//  3. Update plan: a matching updater method, else the save plan
//
// DTO properties with no entity counterpart are skipped silently: DTOs are
// allowed to be projections.
package plan
