package cli_test

import (
	"testing"

	"github.com/go-viper/mapstructure/v2"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/wellsqc/cmd/cli"
	"github.com/temirov/wellsqc/internal/report"
)

func TestEmbeddedDefaultConfigurationDecodes(testInstance *testing.T) {
	configurationContent, configurationType := cli.EmbeddedDefaultConfiguration()
	require.Equal(testInstance, "yaml", configurationType)
	require.NotEmpty(testInstance, configurationContent)

	rawConfiguration := map[string]any{}
	require.NoError(testInstance, yaml.Unmarshal(configurationContent, &rawConfiguration))
	require.Contains(testInstance, rawConfiguration, "common")
	require.Contains(testInstance, rawConfiguration, "tools")

	decodedConfiguration := cli.ApplicationConfiguration{}
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.TextUnmarshallerHookFunc(),
		Result:      &decodedConfiguration,
		ErrorUnused: true,
	})
	require.NoError(testInstance, decoderError)
	require.NoError(testInstance, decoder.Decode(rawConfiguration))

	require.Equal(testInstance, "info", decodedConfiguration.Common.LogLevel)
	require.Equal(testInstance, "structured", decodedConfiguration.Common.LogFormat)
	require.Equal(testInstance, report.FormatCSV, decodedConfiguration.Tools.Audit.ReportFormat)
	require.Equal(testInstance, 1, decodedConfiguration.Tools.Audit.Workers)
}

func TestEmbeddedDefaultConfigurationReturnsCopy(testInstance *testing.T) {
	firstContent, _ := cli.EmbeddedDefaultConfiguration()
	firstContent[0] = '#'

	secondContent, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEqual(testInstance, firstContent[0], secondContent[0])
}
