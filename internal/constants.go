package internal

// Unified constants for the document engine
// These constants are used across the root package and the CLI

const (
	// Container growth
	MinContainerCapacity = 32 // First slot allocation for arrays and objects
	MinStringAllocation  = 32 // First byte allocation for strings, one byte reserved

	// Parser limits
	DefaultMaxObjectDepth = 32       // Object nesting accepted by default
	DefaultMaxArrayDepth  = 32       // Array nesting accepted by default
	DefaultMaxInputSize   = 64 << 20 // 64MB, applied to file and reader input
	MaxErrorContext       = 24       // Bytes of input quoted in a parse error

	// File access
	MaxPathLength = 4096

	// Batch processing
	DefaultWorkers = 8
	MaxWorkers     = 256
)
