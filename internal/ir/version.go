package ir

// Version constants for the snapshot model and engine.
const (
	// IRVersion is the snapshot model version. It is part of every hash domain.
	IRVersion = "1"

	// EngineVersion is the catalogsync engine version.
	EngineVersion = "0.1.0"
)
