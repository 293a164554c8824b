package catalog

import (
	"os"
	"regexp"
	"strings"

	"github.com/temirov/wellsqc/internal/qc"
)

const (
	projectionExtensionConstant = ".prj"
	byteOrderMarkConstant       = "\ufeff"
)

// The outermost WKT node names the reference system, e.g. PROJCS["WGS_1984_UTM_Zone_50N",GEOGCS[...]].
var coordinateSystemNamePattern = regexp.MustCompile(`(?i)^\s*(?:PROJCS|GEOGCS|GEOCCS|COMPD_CS|PROJCRS|GEOGCRS|GEODCRS)\s*\[\s*"([^"]*)"`)

// ReadCoordinateSystemName returns the reference system named by a .prj file, or "Unknown".
func ReadCoordinateSystemName(projectionFilePath string) string {
	content, readError := os.ReadFile(projectionFilePath)
	if readError != nil {
		return qc.UnknownCoordinateSystemName
	}
	return ParseCoordinateSystemName(string(content))
}

// ParseCoordinateSystemName extracts the reference system name from WKT text.
func ParseCoordinateSystemName(wellKnownText string) string {
	matches := coordinateSystemNamePattern.FindStringSubmatch(strings.TrimPrefix(wellKnownText, byteOrderMarkConstant))
	if len(matches) < 2 {
		return qc.UnknownCoordinateSystemName
	}
	name := strings.TrimSpace(matches[1])
	if len(name) == 0 {
		return qc.UnknownCoordinateSystemName
	}
	return name
}

// projectionPath locates the .prj sibling of a shapefile, accepting an upper-case extension.
func projectionPath(shapefilePath string) string {
	path, _ := siblingPath(shapefilePath, projectionExtensionConstant)
	return path
}
