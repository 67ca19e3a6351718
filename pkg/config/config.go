package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	Source          string // dataset source: csv or postgres
	DataDir         string // directory containing the csv files
	ResultsFile     string // name of the results csv file
	LapTimesFile    string // name of the lap times csv file
	PitStopsFile    string // name of the pit stops csv file
	DB              string // connection string for the database
	Seasons         []int  // restricts the postgres source to these years
	WaitForServices string // duration to wait for other services to be ready
	LogLevel        string // sets the log level (zap log level values)
	SQLLogLevel     string // sets the log level for sql statements
	LogFormat       string // text vs json
	LogFilter       string // zapfilter rules, e.g. "debug:dataset* info:*"
	EnableTelemetry bool   // enable telemetry
	OutputFormat    string // json or text
)

const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)
