package core

// Machine represents a parameterized wavefunction amplitude over
// configurations of the system's degrees of freedom. The sampling and
// optimization layers only see this contract; how amplitudes are computed
// (RBM, Jastrow, ...) is up to the implementation.
//
// Implementations must be safe for concurrent read-only evaluation: LogVals
// and DerLogs may be called from multiple goroutines between parameter
// updates, but SetParameters is never called concurrently with evaluation.
type Machine interface {
	// NVisible returns the number of degrees of freedom of a configuration.
	NVisible() int

	// NPar returns the number of variational parameters.
	NPar() int

	// LogVals writes log Psi(batch[i]) into dst[i] for every row of batch.
	// len(dst) must equal len(batch).
	LogVals(dst []complex128, batch [][]float64)

	// DerLogs writes the per-parameter derivatives of log Psi at batch[i]
	// into dst[i]. Each dst[i] must have length NPar().
	DerLogs(dst [][]complex128, batch [][]float64)

	// Parameters returns a copy of the flattened variational parameters.
	Parameters() []float64

	// SetParameters replaces the variational parameters. The slice is copied;
	// the caller keeps ownership. len(params) must equal NPar().
	SetParameters(params []float64)
}
