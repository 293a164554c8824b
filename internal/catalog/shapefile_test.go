package catalog_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/require"

	"github.com/temirov/wellsqc/internal/catalog"
	"github.com/temirov/wellsqc/internal/qc"
)

const (
	testWellsDatasetNameConstant           = "WK_2024_WELLS"
	testProjectionTextConstant             = `PROJCS["WGS_1984_UTM_Zone_50S",GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]],PROJECTION["Transverse_Mercator"],UNIT["Meter",1.0]]`
	testFixturePermissions                 = 0o600
	testFixtureFieldLengthConstant         = 40
	testShapeExtensionConstant             = ".shp"
	testAttributeExtensionConstant         = ".dbf"
	testIndexExtensionConstant             = ".shx"
	testProjectionExtensionConstant        = ".prj"
	testWriterAttributeSuffixConstant      = "dbf"
	testSubtestTemplateConstant            = "%d_%s"
	testReadFailurePrefixConstant          = "Failed to read table: "
	testNullWellNameIssueConstant          = "Null Data Detected: [Row 2 (WELL_NAME is Null/Empty)]"
	testProcessDescriptorDirectoryConstant = "/proc/self/fd"
	testRepeatedEvaluationCountConstant    = 16
)

type shapefileFixture struct {
	name       string
	shapeType  shp.ShapeType
	fieldNames []string
	records    [][]string
	projection string
}

func (fixture shapefileFixture) write(testInstance *testing.T, directory string) string {
	testInstance.Helper()

	shapefilePath := filepath.Join(directory, fixture.name+testShapeExtensionConstant)
	writer, createError := shp.Create(shapefilePath, fixture.shapeType)
	require.NoError(testInstance, createError)

	fields := make([]shp.Field, 0, len(fixture.fieldNames))
	for _, fieldName := range fixture.fieldNames {
		fields = append(fields, shp.StringField(fieldName, testFixtureFieldLengthConstant))
	}
	require.NoError(testInstance, writer.SetFields(fields))

	for _, record := range fixture.records {
		var shape shp.Shape = &shp.Point{X: 117.25, Y: -0.5}
		if fixture.shapeType == shp.POLYLINE {
			shape = shp.NewPolyLine([][]shp.Point{{{X: 0, Y: 0}, {X: 1, Y: 1}}})
		}
		recordIndex := writer.Write(shape)
		for fieldIndex, value := range record {
			require.NoError(testInstance, writer.WriteAttribute(int(recordIndex), fieldIndex, value))
		}
	}
	writer.Close()

	// The writer names the attribute table "<base>dbf"; readers expect "<base>.dbf".
	basePath := strings.TrimSuffix(shapefilePath, testShapeExtensionConstant)
	require.NoError(testInstance, os.Rename(basePath+testWriterAttributeSuffixConstant, basePath+testAttributeExtensionConstant))

	if len(fixture.projection) > 0 {
		projectionPath := filepath.Join(directory, fixture.name+testProjectionExtensionConstant)
		require.NoError(testInstance, os.WriteFile(projectionPath, []byte(fixture.projection), testFixturePermissions))
	}

	return shapefilePath
}

func wellsFixture() shapefileFixture {
	return shapefileFixture{
		name:       testWellsDatasetNameConstant,
		shapeType:  shp.POINT,
		fieldNames: qc.RequiredWellFields,
		records: [][]string{
			{"W-001", "KARANG 1", "EXPLORATION", "PT MIGAS", "117.25", "-0.5"},
			{"W-002", "", "DEVELOPMENT", "PT MIGAS", "117.30", "-0.6"},
		},
		projection: testProjectionTextConstant,
	}
}

func TestShapefileCatalogListsDatasetsInOrder(testInstance *testing.T) {
	inputDirectory := testInstance.TempDir()
	for _, fileName := range []string{"b_2020_WELLS.shp", "a_2021_WELLS.SHP", "a_2021_WELLS.dbf", "notes.txt"} {
		require.NoError(testInstance, os.WriteFile(filepath.Join(inputDirectory, fileName), []byte{}, testFixturePermissions))
	}
	require.NoError(testInstance, os.Mkdir(filepath.Join(inputDirectory, "nested.shp"), 0o755))

	datasets, listError := catalog.NewShapefileCatalog(inputDirectory).List()
	require.NoError(testInstance, listError)
	require.Equal(testInstance, []catalog.Dataset{
		{Name: "a_2021_WELLS", Path: filepath.Join(inputDirectory, "a_2021_WELLS.SHP")},
		{Name: "b_2020_WELLS", Path: filepath.Join(inputDirectory, "b_2020_WELLS.shp")},
	}, datasets)
}

func TestShapefileCatalogListEmptyDirectory(testInstance *testing.T) {
	datasets, listError := catalog.NewShapefileCatalog(testInstance.TempDir()).List()
	require.NoError(testInstance, listError)
	require.Empty(testInstance, datasets)
}

func TestShapefileCatalogListUnreadableDirectory(testInstance *testing.T) {
	_, listError := catalog.NewShapefileCatalog(filepath.Join(testInstance.TempDir(), "absent")).List()
	require.Error(testInstance, listError)
	require.True(testInstance, errors.Is(listError, catalog.ErrInputUnreadable))
}

func TestShapefileCatalogDescribe(testInstance *testing.T) {
	inputDirectory := testInstance.TempDir()
	wellsFixture().write(testInstance, inputDirectory)
	shapefileFixture{name: "roads", shapeType: shp.POLYLINE, fieldNames: []string{"NAME"}, records: [][]string{{"A"}}}.write(testInstance, inputDirectory)

	shapefileCatalog := catalog.NewShapefileCatalog(inputDirectory)
	datasets, listError := shapefileCatalog.List()
	require.NoError(testInstance, listError)
	require.Len(testInstance, datasets, 2)

	wellsDescriptor, wellsError := shapefileCatalog.Describe(datasets[0])
	require.NoError(testInstance, wellsError)
	require.Equal(testInstance, qc.DatasetDescriptor{
		Name:                 testWellsDatasetNameConstant,
		GeometryType:         qc.GeometryTypePoint,
		CoordinateSystemName: "WGS_1984_UTM_Zone_50S",
		FieldNames:           qc.RequiredWellFields,
	}, wellsDescriptor)

	roadsDescriptor, roadsError := shapefileCatalog.Describe(datasets[1])
	require.NoError(testInstance, roadsError)
	require.Equal(testInstance, qc.GeometryTypePolyline, roadsDescriptor.GeometryType)
	require.Equal(testInstance, qc.UnknownCoordinateSystemName, roadsDescriptor.CoordinateSystemName)
	require.Equal(testInstance, []string{"NAME"}, roadsDescriptor.FieldNames)
}

func TestShapefileCatalogDescribeMissingFile(testInstance *testing.T) {
	inputDirectory := testInstance.TempDir()
	_, describeError := catalog.NewShapefileCatalog(inputDirectory).Describe(catalog.Dataset{
		Name: "gone",
		Path: filepath.Join(inputDirectory, "gone.shp"),
	})
	require.Error(testInstance, describeError)
}

func TestShapefileRowsReadAttributes(testInstance *testing.T) {
	inputDirectory := testInstance.TempDir()
	shapefilePath := wellsFixture().write(testInstance, inputDirectory)

	rowSource := catalog.NewShapefileCatalog(inputDirectory).Rows(catalog.Dataset{Name: testWellsDatasetNameConstant, Path: shapefilePath})
	iterator, openError := rowSource.OpenRows([]string{"uwi", "Well_Name"})
	require.NoError(testInstance, openError)

	var rows []qc.AttributeRow
	for iterator.Next() {
		rows = append(rows, iterator.Row())
	}
	require.NoError(testInstance, iterator.Err())
	require.NoError(testInstance, iterator.Close())

	require.Equal(testInstance, []qc.AttributeRow{
		{qc.PresentValue("W-001"), qc.PresentValue("KARANG 1")},
		{qc.PresentValue("W-002"), qc.AbsentValue()},
	}, rows)
}

func TestShapefileRowsRejectUnknownField(testInstance *testing.T) {
	inputDirectory := testInstance.TempDir()
	shapefilePath := wellsFixture().write(testInstance, inputDirectory)

	rowSource := catalog.NewShapefileCatalog(inputDirectory).Rows(catalog.Dataset{Name: testWellsDatasetNameConstant, Path: shapefilePath})
	_, openError := rowSource.OpenRows([]string{"UWI", "STATUS"})
	require.Error(testInstance, openError)
	require.Contains(testInstance, openError.Error(), "STATUS")
}

func TestShapefileDatasetThroughEngine(testInstance *testing.T) {
	inputDirectory := testInstance.TempDir()
	shapefilePath := wellsFixture().write(testInstance, inputDirectory)

	shapefileCatalog := catalog.NewShapefileCatalog(inputDirectory)
	dataset := catalog.Dataset{Name: testWellsDatasetNameConstant, Path: shapefilePath}
	descriptor, describeError := shapefileCatalog.Describe(dataset)
	require.NoError(testInstance, describeError)

	verdict := qc.NewWellsEngine().Evaluate(testInstance.Context(), descriptor, shapefileCatalog.Rows(dataset))
	require.Equal(testInstance, qc.StatusFail, verdict.Status)
	require.Equal(testInstance, []string{testNullWellNameIssueConstant}, verdict.Issues)
}

func TestShapefileFixtureWritesAttributeTable(testInstance *testing.T) {
	inputDirectory := testInstance.TempDir()
	shapefilePath := wellsFixture().write(testInstance, inputDirectory)
	basePath := strings.TrimSuffix(shapefilePath, testShapeExtensionConstant)

	require.FileExists(testInstance, basePath+testAttributeExtensionConstant)
	require.NoFileExists(testInstance, basePath+testWriterAttributeSuffixConstant)
}

func TestShapefileCatalogUpperCaseExtensions(testInstance *testing.T) {
	inputDirectory := testInstance.TempDir()
	shapefilePath := wellsFixture().write(testInstance, inputDirectory)
	basePath := strings.TrimSuffix(shapefilePath, testShapeExtensionConstant)
	for _, extension := range []string{testShapeExtensionConstant, testAttributeExtensionConstant, testIndexExtensionConstant, testProjectionExtensionConstant} {
		require.NoError(testInstance, os.Rename(basePath+extension, basePath+strings.ToUpper(extension)))
	}

	shapefileCatalog := catalog.NewShapefileCatalog(inputDirectory)
	datasets, listError := shapefileCatalog.List()
	require.NoError(testInstance, listError)
	require.Equal(testInstance, []catalog.Dataset{
		{Name: testWellsDatasetNameConstant, Path: basePath + strings.ToUpper(testShapeExtensionConstant)},
	}, datasets)

	descriptor, describeError := shapefileCatalog.Describe(datasets[0])
	require.NoError(testInstance, describeError)
	require.Equal(testInstance, qc.DatasetDescriptor{
		Name:                 testWellsDatasetNameConstant,
		GeometryType:         qc.GeometryTypePoint,
		CoordinateSystemName: "WGS_1984_UTM_Zone_50S",
		FieldNames:           qc.RequiredWellFields,
	}, descriptor)

	verdict := qc.NewWellsEngine().Evaluate(testInstance.Context(), descriptor, shapefileCatalog.Rows(datasets[0]))
	require.Equal(testInstance, []string{testNullWellNameIssueConstant}, verdict.Issues)
}

func TestShapefileCatalogDescribeMissingAttributeTable(testInstance *testing.T) {
	inputDirectory := testInstance.TempDir()
	shapefilePath := wellsFixture().write(testInstance, inputDirectory)
	require.NoError(testInstance, os.Remove(strings.TrimSuffix(shapefilePath, testShapeExtensionConstant)+testAttributeExtensionConstant))

	_, describeError := catalog.NewShapefileCatalog(inputDirectory).Describe(catalog.Dataset{Name: testWellsDatasetNameConstant, Path: shapefilePath})
	require.Error(testInstance, describeError)
}

// damagedWellsDataset writes the wells fixture and applies damage to it.
func damagedWellsDataset(testInstance *testing.T, damage func(testInstance *testing.T, basePath string)) (*catalog.ShapefileCatalog, catalog.Dataset) {
	testInstance.Helper()
	inputDirectory := testInstance.TempDir()
	shapefilePath := wellsFixture().write(testInstance, inputDirectory)
	damage(testInstance, strings.TrimSuffix(shapefilePath, testShapeExtensionConstant))
	return catalog.NewShapefileCatalog(inputDirectory), catalog.Dataset{Name: testWellsDatasetNameConstant, Path: shapefilePath}
}

func truncateFile(testInstance *testing.T, path string, removedBytes int64) {
	testInstance.Helper()
	fileInfo, statError := os.Stat(path)
	require.NoError(testInstance, statError)
	require.NoError(testInstance, os.Truncate(path, fileInfo.Size()-removedBytes))
}

func appendToFile(testInstance *testing.T, path string, content []byte) {
	testInstance.Helper()
	file, openError := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, testFixturePermissions)
	require.NoError(testInstance, openError)
	_, writeError := file.Write(content)
	require.NoError(testInstance, writeError)
	require.NoError(testInstance, file.Close())
}

func TestShapefileDatasetReadFailures(testInstance *testing.T) {
	attributeRecordLength := int64(1 + testFixtureFieldLengthConstant*len(qc.RequiredWellFields))

	testCases := []struct {
		name               string
		damage             func(testInstance *testing.T, basePath string)
		expectedNullIssues []string
	}{
		{
			name: "shape_record_cut_short",
			damage: func(testInstance *testing.T, basePath string) {
				truncateFile(testInstance, basePath+testShapeExtensionConstant, 8)
			},
		},
		{
			name: "partial_record_header_appended",
			damage: func(testInstance *testing.T, basePath string) {
				appendToFile(testInstance, basePath+testShapeExtensionConstant, []byte{0, 0, 0, 3, 0, 0})
			},
			expectedNullIssues: []string{testNullWellNameIssueConstant},
		},
		{
			name: "last_attribute_record_missing",
			damage: func(testInstance *testing.T, basePath string) {
				truncateFile(testInstance, basePath+testAttributeExtensionConstant, attributeRecordLength)
			},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			shapefileCatalog, dataset := damagedWellsDataset(testInstance, testCase.damage)

			descriptor, describeError := shapefileCatalog.Describe(dataset)
			require.NoError(testInstance, describeError)

			verdict := qc.NewWellsEngine().Evaluate(testInstance.Context(), descriptor, shapefileCatalog.Rows(dataset))
			require.Equal(testInstance, qc.StatusFail, verdict.Status)
			require.Len(testInstance, verdict.Issues, 1+len(testCase.expectedNullIssues))
			require.True(testInstance, strings.HasPrefix(verdict.Issues[0], testReadFailurePrefixConstant), verdict.Issues[0])
			require.ElementsMatch(testInstance, testCase.expectedNullIssues, verdict.Issues[1:])
		})
	}
}

func TestShapefileRowsReleaseFilesAfterReadFailure(testInstance *testing.T) {
	if _, readError := os.ReadDir(testProcessDescriptorDirectoryConstant); readError != nil {
		testInstance.Skip("open file descriptors cannot be listed on this platform")
	}

	shapefileCatalog, dataset := damagedWellsDataset(testInstance, func(testInstance *testing.T, basePath string) {
		truncateFile(testInstance, basePath+testShapeExtensionConstant, 8)
	})
	rowSource := shapefileCatalog.Rows(dataset)

	openDescriptorCount := func() int {
		descriptorEntries, readError := os.ReadDir(testProcessDescriptorDirectoryConstant)
		require.NoError(testInstance, readError)
		return len(descriptorEntries)
	}

	descriptorCountBefore := openDescriptorCount()
	for evaluationIndex := 0; evaluationIndex < testRepeatedEvaluationCountConstant; evaluationIndex++ {
		iterator, openError := rowSource.OpenRows(qc.RequiredWellFields)
		require.NoError(testInstance, openError)
		for iterator.Next() {
		}
		require.Error(testInstance, iterator.Err())
		require.NoError(testInstance, iterator.Close())
		require.NoError(testInstance, iterator.Close())
	}
	require.Equal(testInstance, descriptorCountBefore, openDescriptorCount())
}
