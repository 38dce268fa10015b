// Package planner turns a media item and its location name into a target
// path inside the destination library:
//
//	<root>/<year>/<month>/<location>/<filename>
//	<root>/Unknown_Date/<location>/<filename>
//
// Filenames are rendered from a template with {date}, {year}, {month},
// {day}, {original_name}, {ext}, and {counter} placeholders. Collisions with
// existing files are resolved deterministically by numbering.
package planner
