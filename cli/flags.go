package cli

var (
	verbose    bool
	configPath string

	// for server start
	listenAddr  string
	enableCORS  bool
	runDaemon   bool
	maxSessions int

	// for gesture commands
	language string
)
