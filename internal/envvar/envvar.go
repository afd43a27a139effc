package envvar

const (
	// ArcitekEnv is the environment variable used to determine the environment
	ArcitekEnv = "ARCITEK_ENV"

	// ArcitekServerHTTPPort is the environment variable used to determine the HTTP port
	ArcitekServerHTTPPort = "ARCITEK_SERVER_HTTP_PORT"

	// ArcitekServerGRPCPort is the environment variable used to determine the gRPC port
	ArcitekServerGRPCPort = "ARCITEK_SERVER_GRPC_PORT"

	// ArcitekOutputDir is the environment variable used to override the output directory
	ArcitekOutputDir = "ARCITEK_OUTPUT_DIR"

	// ArcitekLogFile is the environment variable used to determine the log file path
	ArcitekLogFile = "ARCITEK_LOG_FILE"

	// OpenAIAPIKey is the environment variable holding the OpenAI API key
	OpenAIAPIKey = "OPENAI_API_KEY"

	// OpenAIBaseURL is the environment variable used to override the OpenAI base URL
	OpenAIBaseURL = "OPENAI_BASE_URL"
)
