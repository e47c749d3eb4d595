// ABOUTME: Sample sources for the modulation engine
// ABOUTME: Each source yields one 8-bit sample per carrier period, never blocking
package source

// Source provides the next 8-bit modulation sample. Next is called once per
// carrier period from the engine tick and must complete in bounded time
// without blocking or allocating.
type Source interface {
	Next() byte
}

// Silence always yields zero duty: carrier off, no modulation.
type Silence struct{}

func (Silence) Next() byte { return 0 }
