package ports

// RNGPort provides the uniform draws the generator consumes.
// Implementations are seeded so a run can be replayed from its manifest.
type RNGPort interface {
	// Uniform draws a continuous value in [min, max)
	Uniform(min, max float64) float64

	// IntRange draws an integer in [min, max], both bounds inclusive
	IntRange(min, max int) int

	// UnitColumn draws n independent values in [0, 1)
	UnitColumn(n int) []float64

	// Seed returns the seed the stream was created with
	Seed() uint64
}
