package config

// Returns a SizeConfig with recommended defaults.
func DefaultSizeConfig() *SizeConfig {
	return &SizeConfig{
		MaxRecordSize: DefaultMaxRecordSize,
		ChunkSize:     DefaultChunkSize,
	}
}

// Returns the limits the Java deflater peers run with.
func CompatSizeConfig() *SizeConfig {
	return &SizeConfig{
		MaxRecordSize: CompatMaxRecordSize,
		ChunkSize:     CompatChunkSize,
	}
}
