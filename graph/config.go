package graph

import (
	"github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"
)

// VertexID encodes (pe_id, local_index) in two bit-fields: high bits carry
// the owning PE, low bits carry the dense local slot index.
type VertexID int64

// Config captures the compile-time constants of the simulated fabric.
// NodeIDMask and PEIDShift are derived once from MaxVerticesPerPE and
// sealed; callers never mutate them directly (spec.md §9, "Global constants
// as compile-time configuration").
type Config struct {
	// NumPE is the number of Processing Elements in the fabric.
	NumPE int

	// NumFPGA is the number of FPGAs PEs are grouped onto; PE p belongs to
	// FPGA p mod NumFPGA.
	NumFPGA int

	// NumChannels is the roundpar modulus.
	NumChannels int

	// MaxVerticesPerPE bounds the dense local-index space of every PE.
	MaxVerticesPerPE int64

	// NodeIDMask and PEIDShift are derived by validate(); do not set these
	// directly.
	NodeIDMask VertexID
	PEIDShift  uint
}

// NewConfig validates opts and derives NodeIDMask/PEIDShift from
// MaxVerticesPerPE.
func NewConfig(opts Config) (Config, error) {
	if err := opts.validate(); err != nil {
		return Config{}, xerrors.Errorf("graph config validation failed: %w", err)
	}
	return opts, nil
}

func (c *Config) validate() error {
	var err error
	if c.NumPE <= 0 {
		err = multierror.Append(err, xerrors.New("num_pe must be positive"))
	}
	if c.NumFPGA <= 0 {
		err = multierror.Append(err, xerrors.New("num_fpga must be positive"))
	}
	if c.NumChannels <= 0 {
		err = multierror.Append(err, xerrors.New("num_channels must be positive"))
	}
	if c.MaxVerticesPerPE <= 0 {
		err = multierror.Append(err, xerrors.New("max_vertices_per_pe must be positive"))
	}
	if err != nil {
		return err
	}

	localIDSize := uint(1)
	for (int64(1) << localIDSize) <= c.MaxVerticesPerPE {
		localIDSize++
	}
	c.NodeIDMask = VertexID((int64(1) << localIDSize) - 1)
	c.PEIDShift = localIDSize
	return nil
}
