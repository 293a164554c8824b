// Package catalog lists the shapefile datasets stored in an input directory,
// describes their geometry, spatial reference and schema, and reads their
// attribute rows for the quality-control engine.
package catalog
