package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonas-p/go-shp"

	"github.com/temirov/wellsqc/internal/qc"
)

const (
	shapefileExtensionConstant         = ".shp"
	inputUnreadableTemplateConstant    = "%w: %s: %v"
	openShapefileErrorTemplateConstant = "unable to open %s: %w"
	fieldNameNullPaddingConstant       = "\x00"
)

// ErrInputUnreadable indicates the input location cannot be enumerated.
var ErrInputUnreadable = errors.New("input location is unreadable")

// Dataset identifies one shapefile in the catalog.
type Dataset struct {
	Name string
	Path string
}

// ShapefileCatalog enumerates and describes the shapefiles of a single directory.
type ShapefileCatalog struct {
	directory string
}

// NewShapefileCatalog constructs a catalog rooted at directory.
func NewShapefileCatalog(directory string) *ShapefileCatalog {
	return &ShapefileCatalog{directory: directory}
}

// Directory returns the catalog root.
func (catalog *ShapefileCatalog) Directory() string {
	return catalog.directory
}

// List returns the shapefiles directly inside the directory, sorted by file name.
func (catalog *ShapefileCatalog) List() ([]Dataset, error) {
	directoryEntries, readError := os.ReadDir(catalog.directory)
	if readError != nil {
		return nil, fmt.Errorf(inputUnreadableTemplateConstant, ErrInputUnreadable, catalog.directory, readError)
	}

	datasets := make([]Dataset, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		if directoryEntry.IsDir() {
			continue
		}
		fileName := directoryEntry.Name()
		extension := filepath.Ext(fileName)
		if !strings.EqualFold(extension, shapefileExtensionConstant) {
			continue
		}
		datasets = append(datasets, Dataset{
			Name: strings.TrimSuffix(fileName, extension),
			Path: filepath.Join(catalog.directory, fileName),
		})
	}

	sort.Slice(datasets, func(firstIndex int, secondIndex int) bool {
		return datasets[firstIndex].Path < datasets[secondIndex].Path
	})
	return datasets, nil
}

// Describe reads the shapefile header, dBASE schema and projection of the dataset.
// Sibling files are matched case-insensitively, so WELLS.SHP pairs with WELLS.DBF.
func (catalog *ShapefileCatalog) Describe(dataset Dataset) (qc.DatasetDescriptor, error) {
	files, openError := openShapefileFiles(dataset.Path)
	if openError != nil {
		return qc.DatasetDescriptor{}, openError
	}
	defer func() { _ = files.Close() }()

	shapeType, headerError := files.shapeType()
	if headerError != nil {
		return qc.DatasetDescriptor{}, headerError
	}

	reader, readerError := files.sequentialReader()
	if readerError != nil {
		return qc.DatasetDescriptor{}, readerError
	}

	fields := reader.Fields()
	fieldNames := make([]string, 0, len(fields))
	for _, field := range fields {
		fieldNames = append(fieldNames, fieldName(field))
	}

	return qc.DatasetDescriptor{
		Name:                 dataset.Name,
		GeometryType:         geometryTypeOf(shapeType),
		CoordinateSystemName: ReadCoordinateSystemName(projectionPath(dataset.Path)),
		FieldNames:           fieldNames,
	}, nil
}

// Rows returns the row source reading the dataset's attribute table.
func (catalog *ShapefileCatalog) Rows(dataset Dataset) qc.RowSource {
	return shapefileRowSource{path: dataset.Path}
}

func fieldName(field shp.Field) string {
	return strings.TrimSpace(strings.TrimRight(field.String(), fieldNameNullPaddingConstant))
}

func geometryTypeOf(shapeType shp.ShapeType) qc.GeometryType {
	switch shapeType {
	case shp.POINT, shp.POINTZ, shp.POINTM:
		return qc.GeometryTypePoint
	case shp.POLYLINE, shp.POLYLINEZ, shp.POLYLINEM:
		return qc.GeometryTypePolyline
	case shp.POLYGON, shp.POLYGONZ, shp.POLYGONM:
		return qc.GeometryTypePolygon
	case shp.MULTIPOINT, shp.MULTIPOINTZ, shp.MULTIPOINTM:
		return qc.GeometryTypeMultipoint
	case shp.MULTIPATCH:
		return qc.GeometryTypeMultiPatch
	default:
		return qc.GeometryTypeUnknown
	}
}
