// Package facets turns song metadata into filterable facet records.
//
// The package has three pure parts:
//
//  1. [Extract] : reads the basic song info block of a [WikiSummary] and
//     produces a [models.FacetRecord] (styles, business tags, language, BPM)
//  2. [DeriveOptions] : reduces the current records to the distinct values
//     usable as filter choices ([models.AvailableFilters])
//  3. [Matches] / [Filter] : conjunctive filtering, AND across categories and
//     OR within a category
//
// Upstream payloads are loosely shaped. [DecodeWikiSummary] decodes them into
// typed structs whose optional parts are pointers or nil slices, and extraction
// treats anything missing by omission rather than by error.
package facets
