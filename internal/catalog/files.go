package catalog

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
)

const (
	attributeTableExtensionConstant       = ".dbf"
	shapeHeaderLengthConstant             = 100
	shapeFileCodeConstant                 = 9994
	shapeFileLengthOffsetConstant         = 24
	shapeLengthMismatchTemplateConstant   = "%w: header declares %d bytes, file holds %d"
	shapeTypeOffsetConstant               = 32
	attributeHeaderPrefixLengthConstant   = 8
	attributeRecordCountOffsetConstant    = 4
	invalidShapeHeaderTemplateConstant    = "%w: file code %d"
	attributeHeaderTemplateConstant       = "unable to read attribute table header of %s: %w"
	attributeTableMissingTemplateConstant = "%w: %s"
)

var (
	errInvalidShapeHeader     = errors.New("not an ESRI shapefile")
	errAttributeTableNotFound = errors.New("attribute table not found")
	errShapeLengthMismatch    = errors.New("shapefile length does not match its header")
)

// shapefileFiles holds the main file and the attribute table of one shapefile.
// Both handles are owned here and closed regardless of reader state.
type shapefileFiles struct {
	shapeFile     *os.File
	attributeFile *os.File
}

func openShapefileFiles(shapefilePath string) (*shapefileFiles, error) {
	attributePath, attributeFound := siblingPath(shapefilePath, attributeTableExtensionConstant)
	if !attributeFound {
		return nil, fmt.Errorf(openShapefileErrorTemplateConstant, shapefilePath, fmt.Errorf(attributeTableMissingTemplateConstant, errAttributeTableNotFound, attributePath))
	}

	shapeFile, shapeOpenError := os.Open(shapefilePath)
	if shapeOpenError != nil {
		return nil, fmt.Errorf(openShapefileErrorTemplateConstant, shapefilePath, shapeOpenError)
	}

	attributeFile, attributeOpenError := os.Open(attributePath)
	if attributeOpenError != nil {
		_ = shapeFile.Close()
		return nil, fmt.Errorf(openShapefileErrorTemplateConstant, attributePath, attributeOpenError)
	}

	return &shapefileFiles{shapeFile: shapeFile, attributeFile: attributeFile}, nil
}

// sequentialReader streams shapes and attribute rows from the current file offsets.
func (files *shapefileFiles) sequentialReader() (shp.SequentialReader, error) {
	reader := shp.SequentialReaderFromExt(files.shapeFile, files.attributeFile)
	if headerError := reader.Err(); headerError != nil {
		return nil, fmt.Errorf(openShapefileErrorTemplateConstant, files.shapeFile.Name(), headerError)
	}
	return reader, nil
}

func (files *shapefileFiles) readShapeHeader() ([]byte, error) {
	header := make([]byte, shapeHeaderLengthConstant)
	if _, readError := files.shapeFile.ReadAt(header, 0); readError != nil {
		return nil, fmt.Errorf(openShapefileErrorTemplateConstant, files.shapeFile.Name(), readError)
	}
	fileCode := binary.BigEndian.Uint32(header[:4])
	if fileCode != shapeFileCodeConstant {
		return nil, fmt.Errorf(openShapefileErrorTemplateConstant, files.shapeFile.Name(), fmt.Errorf(invalidShapeHeaderTemplateConstant, errInvalidShapeHeader, fileCode))
	}
	return header, nil
}

// shapeType reads the geometry type from the main file header without moving the file offset.
func (files *shapefileFiles) shapeType() (shp.ShapeType, error) {
	header, headerError := files.readShapeHeader()
	if headerError != nil {
		return shp.NULL, headerError
	}
	return shp.ShapeType(int32(binary.LittleEndian.Uint32(header[shapeTypeOffsetConstant : shapeTypeOffsetConstant+4]))), nil
}

// verifyShapeLength compares the length recorded in the main file header, counted in 16-bit words,
// with the size of the file on disk.
func (files *shapefileFiles) verifyShapeLength() error {
	header, headerError := files.readShapeHeader()
	if headerError != nil {
		return headerError
	}
	fileInfo, statError := files.shapeFile.Stat()
	if statError != nil {
		return fmt.Errorf(openShapefileErrorTemplateConstant, files.shapeFile.Name(), statError)
	}
	declaredLength := int64(binary.BigEndian.Uint32(header[shapeFileLengthOffsetConstant:shapeFileLengthOffsetConstant+4])) * 2
	if declaredLength != fileInfo.Size() {
		return fmt.Errorf(shapeLengthMismatchTemplateConstant, errShapeLengthMismatch, declaredLength, fileInfo.Size())
	}
	return nil
}

// recordCount reads the number of rows the attribute table header declares.
func (files *shapefileFiles) recordCount() (int, error) {
	header := make([]byte, attributeHeaderPrefixLengthConstant)
	if _, readError := files.attributeFile.ReadAt(header, 0); readError != nil {
		return 0, fmt.Errorf(attributeHeaderTemplateConstant, files.attributeFile.Name(), readError)
	}
	return int(binary.LittleEndian.Uint32(header[attributeRecordCountOffsetConstant:attributeHeaderPrefixLengthConstant])), nil
}

func (files *shapefileFiles) Close() error {
	return errors.Join(files.shapeFile.Close(), files.attributeFile.Close())
}

// siblingPath locates the file sharing the shapefile's base name with the given extension,
// matching the extension case-insensitively. When no such file exists it returns the
// lower-case candidate and false.
func siblingPath(shapefilePath string, extension string) (string, bool) {
	basePath := strings.TrimSuffix(shapefilePath, filepath.Ext(shapefilePath))
	candidates := []string{
		basePath + strings.ToLower(extension),
		basePath + strings.ToUpper(extension),
	}
	for _, candidate := range candidates {
		if fileExists(candidate) {
			return candidate, true
		}
	}

	baseName := filepath.Base(basePath)
	directoryEntries, readError := os.ReadDir(filepath.Dir(shapefilePath))
	if readError == nil {
		for _, directoryEntry := range directoryEntries {
			if directoryEntry.IsDir() {
				continue
			}
			entryName := directoryEntry.Name()
			entryExtension := filepath.Ext(entryName)
			if strings.EqualFold(entryExtension, extension) && strings.TrimSuffix(entryName, entryExtension) == baseName {
				return filepath.Join(filepath.Dir(shapefilePath), entryName), true
			}
		}
	}
	return candidates[0], false
}

func fileExists(path string) bool {
	fileInfo, statError := os.Stat(path)
	return statError == nil && !fileInfo.IsDir()
}
