// Package state replaces ad-hoc shared cells with one [App] value owned by the front end.
//
// Tracks are replaced wholesale on fetch. Records are appended one at a time by the active
// enrichment run via [App.Apply]; steps from a superseded run are ignored. Filter selections
// change only through user actions and survive new fetches until [App.ResetFilters].
//
// Derived views ([App.Available], [App.Filtered], [App.CopyText]) are computed on demand from
// the current records and never stored.
package state
