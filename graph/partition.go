package graph

// Partition maps global vertex IDs to (pe, local) placements and back. The
// round-robin formula is offset by one so that global vertex 0 never maps
// to local slot 0 of PE 0 — the simulator reserves raw id 0 as an
// invalid/sentinel VertexID detectable by every component.
type Partition struct {
	cfg Config
}

// NewPartition returns a Partition bound to cfg.
func NewPartition(cfg Config) *Partition {
	return &Partition{cfg: cfg}
}

// Config returns the Config this Partition was built from.
func (p *Partition) Config() Config { return p.cfg }

// Placement returns the placed VertexID for global vertex v.
func (p *Partition) Placement(v VertexID) VertexID {
	global := v + 1
	peID := global % VertexID(p.cfg.NumPE)
	local := global / VertexID(p.cfg.NumPE)
	return (peID << p.cfg.PEIDShift) | local
}

// Origin returns the global vertex that placed id refers to.
func (p *Partition) Origin(id VertexID) VertexID {
	return p.OriginOf(p.PEID(id), p.LocalID(id))
}

// OriginOf returns the global vertex for an explicit (pe, local) pair.
func (p *Partition) OriginOf(peID int, local VertexID) VertexID {
	return local*VertexID(p.cfg.NumPE) + VertexID(peID) - 1
}

// PEID returns the owning PE of a placed VertexID.
func (p *Partition) PEID(id VertexID) int {
	return int(id >> p.cfg.PEIDShift)
}

// LocalID returns the dense local slot index of a placed VertexID.
func (p *Partition) LocalID(id VertexID) VertexID {
	return id & p.cfg.NodeIDMask
}

// FPGAOf returns the FPGA hosting peID. PEs are placed onto FPGAs
// round-robin: PE i lives on FPGA i mod NumFPGA (fully connected inside
// one FPGA, one hop to cross to another).
func (p *Partition) FPGAOf(peID int) int {
	return peID % p.cfg.NumFPGA
}
