// Package constants provides shared constants for the portfolio-forecast application.
package constants

// Confidence bounds, expressed in percentage points.
const (
	// MinConfidence is the lowest confidence an item can carry
	MinConfidence = 0.0

	// MaxConfidence is the highest confidence an item can carry
	MaxConfidence = 100.0

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// MinSensitivity is the lower end of the interactive sensitivity control
	MinSensitivity = -10

	// MaxSensitivity is the upper end of the interactive sensitivity control
	MaxSensitivity = 10
)

// Simulation constants
const (
	// DefaultTrials is the number of trials used for a probability estimate
	DefaultTrials = 2000

	// NoiseSpan is the full width of the uniform confidence noise (±15 points)
	NoiseSpan = 30.0

	// DefaultWorkers is the number of goroutines used to run trials
	DefaultWorkers = 1

	// DefaultAsyncItemThreshold is the item count above which the dashboard
	// computes probabilities in the background
	DefaultAsyncItemThreshold = 50

	// ProbabilityPrecision rounds a probability to one decimal place
	ProbabilityPrecision = 10
)

// Confidence band thresholds and labels
const (
	// HighBandThreshold is the lowest confidence considered committable
	HighBandThreshold = 75.0

	// MediumBandThreshold is the lowest confidence considered conditional
	MediumBandThreshold = 50.0

	BandHigh   = "High (Committable)"
	BandMedium = "Medium (Conditional)"
	BandLow    = "Low (Aspirational)"
)

// Dimension scoring constants
const (
	// DimensionScoreMax is the highest score a single readiness dimension can receive
	DimensionScoreMax = 5

	// DimensionCount is the number of readiness dimensions scored per item
	DimensionCount = 5
)

// Scenario keys
const (
	ScenarioBase         = "Base"
	ScenarioOptimistic   = "Optimistic"
	ScenarioConservative = "Conservative"

	// DefaultScenario is selected when no scenario is configured
	DefaultScenario = ScenarioBase
)

// PreviewItemID identifies the unsaved item added by a preview evaluation.
const PreviewItemID = "PREVIEW"

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultDatabasePath is the default SQLite file for saved portfolio items
	DefaultDatabasePath = "portfolio.db"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)

// Assessment API defaults
const (
	// DefaultAssessmentTimeoutSeconds bounds a single assessment API request
	DefaultAssessmentTimeoutSeconds = 30

	// DefaultAssessmentRequestsPerSecond limits calls to the assessment API
	DefaultAssessmentRequestsPerSecond = 5.0
)

// Validation constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100
)
