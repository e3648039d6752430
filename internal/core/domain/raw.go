package domain

// RawRecord is a record exactly as one source returned it, before
// normalisation. Each connector defines its own concrete type; only the
// connector that produced a RawRecord knows how to read it.
type RawRecord interface {
	// RawSource names the source whose adapter can normalise this record.
	RawSource() SourceName
}
