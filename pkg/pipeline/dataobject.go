// Package pipeline implements the demand-driven update protocol that lets a
// chain of processing stages compute only the portion of data a consumer
// actually asked for. Each data object tracks three nested regions (largest
// possible, buffered, requested) plus modification timestamps; the protocol
// walks the producer chain refreshing geometry, propagating the requested
// region upstream, and recomputing only the stages whose output is stale.
package pipeline

import (
	"fmt"

	"ndimage/pkg/region"
)

// Source is the producer side of the pipeline seen from a data object: the
// stage that knows how to refresh the object's geometry and recompute its
// contents. ProcessObject implements it.
type Source interface {
	// UpdateOutputInformation refreshes output geometry from upstream
	// without touching any buffers.
	UpdateOutputInformation() error

	// PropagateRequestedRegion pushes the output's requested region
	// upstream onto the producer's own inputs.
	PropagateRequestedRegion(output DataObject) error

	// UpdateOutputData recomputes the output's requested region.
	UpdateOutputData(output DataObject) error

	// GetMTime returns the producer's own modification time.
	GetMTime() uint64
}

// DataObject is the full region-bookkeeping and update-protocol contract
// every pipeline data object implements. Image implements it backed by a
// dense buffer; an adaptor implements it by delegating to a wrapped image.
type DataObject interface {
	// Dim returns the dimensionality fixed at construction.
	Dim() int

	GetLargestPossibleRegion() region.Region
	GetBufferedRegion() region.Region
	GetRequestedRegion() region.Region
	SetLargestPossibleRegion(region.Region)
	SetBufferedRegion(region.Region)
	SetRequestedRegion(region.Region)

	// SetRequestedRegionFrom copies the other object's requested region
	// after checking dimensional compatibility.
	SetRequestedRegionFrom(DataObject) error
	SetRequestedRegionToLargestPossibleRegion()

	// VerifyRequestedRegion reports whether the requested region lies
	// inside the largest possible region.
	VerifyRequestedRegion() bool

	GetMTime() uint64
	Modified()

	// GetPipelineMTime and SetPipelineMTime expose the time of the most
	// recent upstream change, maintained by the update protocol.
	GetPipelineMTime() uint64
	SetPipelineMTime(uint64)

	// GetUpdateMTime returns the time this object's data was last
	// generated.
	GetUpdateMTime() uint64

	// DataHasBeenGenerated records that the buffer now reflects the
	// requested region; called by the producer after computation.
	DataHasBeenGenerated()

	SetReleaseDataFlag(bool)
	GetReleaseDataFlag() bool
	GetDataReleased() bool
	ReleaseData()
	Initialize()

	// CopyInformation copies geometry metadata (largest possible region,
	// and for images also spacing and origin) from another object.
	CopyInformation(DataObject) error

	GetSource() Source
	SetSource(Source)

	Update() error
	UpdateOutputInformation() error
	PropagateRequestedRegion() error
	UpdateOutputData() error
}

// DataObjectBase holds the region bookkeeping shared by every concrete data
// object: the three nested regions, the modification timestamps, the release
// flags and the producer link. Concrete types embed a *DataObjectBase and
// register themselves as its owner so protocol recursion hands the concrete
// object, not the base, to the producer.
type DataObjectBase struct {
	owner DataObject

	dim       int
	largest   region.Region
	buffered  region.Region
	requested region.Region

	mtime         uint64
	pipelineMTime uint64
	updateMTime   uint64

	released        bool
	releaseDataFlag bool

	source Source
}

// NewDataObjectBase creates the bookkeeping state for a data object of the
// given dimensionality. All three regions start empty and the object starts
// in the released state (no buffer behind it yet).
func NewDataObjectBase(dim int) *DataObjectBase {
	return &DataObjectBase{
		dim:       dim,
		largest:   region.Zero(dim),
		buffered:  region.Zero(dim),
		requested: region.Zero(dim),
		mtime:     NextMTime(),
		released:  true,
	}
}

// SetOwner registers the concrete data object embedding this base, so that
// protocol calls recursing into the producer pass the concrete object.
func (d *DataObjectBase) SetOwner(o DataObject) {
	d.owner = o
}

func (d *DataObjectBase) self() DataObject {
	if d.owner != nil {
		return d.owner
	}
	return d
}

// Dim returns the dimensionality fixed at construction.
func (d *DataObjectBase) Dim() int { return d.dim }

// GetLargestPossibleRegion returns the theoretical full extent of the
// dataset.
func (d *DataObjectBase) GetLargestPossibleRegion() region.Region { return d.largest }

// GetBufferedRegion returns the subset currently resident in memory.
func (d *DataObjectBase) GetBufferedRegion() region.Region { return d.buffered }

// GetRequestedRegion returns the subset a consumer has asked for.
func (d *DataObjectBase) GetRequestedRegion() region.Region { return d.requested }

// SetLargestPossibleRegion stores the theoretical full extent. The
// modification time advances only when the region actually changes, so that
// repeated pipeline passes over unchanged geometry stay cheap.
func (d *DataObjectBase) SetLargestPossibleRegion(r region.Region) {
	if d.largest.Equal(r) {
		return
	}
	d.largest = r
	d.Modified()
}

// SetBufferedRegion records the subset the producer has actually computed or
// loaded.
func (d *DataObjectBase) SetBufferedRegion(r region.Region) {
	if d.buffered.Equal(r) {
		return
	}
	d.buffered = r
	d.Modified()
}

// SetRequestedRegion declares the subset a downstream consumer needs. No
// containment check happens here; reconciliation against the largest
// possible region is the job of PropagateRequestedRegion.
func (d *DataObjectBase) SetRequestedRegion(r region.Region) {
	if d.requested.Equal(r) {
		return
	}
	d.requested = r
	d.Modified()
}

// SetRequestedRegionFrom copies the requested region of another data object
// after verifying dimensional compatibility.
func (d *DataObjectBase) SetRequestedRegionFrom(other DataObject) error {
	if other.Dim() != d.dim {
		return fmt.Errorf("%w: cannot copy requested region between %d-dimensional and %d-dimensional objects",
			ErrIncompatibleGeometry, other.Dim(), d.dim)
	}
	d.SetRequestedRegion(other.GetRequestedRegion())
	return nil
}

// SetRequestedRegionToLargestPossibleRegion is the explicit opt-in for
// consumers that want the whole dataset rather than a sub-region.
func (d *DataObjectBase) SetRequestedRegionToLargestPossibleRegion() {
	d.SetRequestedRegion(d.largest)
}

// VerifyRequestedRegion reports whether the requested region is fully
// contained in the largest possible region. Producers treat false as a
// precondition failure.
func (d *DataObjectBase) VerifyRequestedRegion() bool {
	return d.largest.Contains(d.requested)
}

// GetMTime returns the object's modification time.
func (d *DataObjectBase) GetMTime() uint64 { return d.mtime }

// Modified advances the modification time unconditionally. Call it whenever
// externally observable state changes.
func (d *DataObjectBase) Modified() {
	d.mtime = NextMTime()
}

// GetPipelineMTime returns the time of the most recent upstream change seen
// by the update protocol.
func (d *DataObjectBase) GetPipelineMTime() uint64 { return d.pipelineMTime }

// SetPipelineMTime records the time of the most recent upstream change.
func (d *DataObjectBase) SetPipelineMTime(t uint64) { d.pipelineMTime = t }

// GetUpdateMTime returns the time this object's data was last generated.
func (d *DataObjectBase) GetUpdateMTime() uint64 { return d.updateMTime }

// DataHasBeenGenerated marks the object's buffer as freshly computed: the
// released state is cleared and the update time advances past every upstream
// timestamp observed during this pass.
func (d *DataObjectBase) DataHasBeenGenerated() {
	d.released = false
	d.Modified()
	d.updateMTime = d.mtime
}

// SetReleaseDataFlag controls whether the producer chain frees this object's
// buffer as soon as downstream consumption is done.
func (d *DataObjectBase) SetReleaseDataFlag(on bool) {
	if d.releaseDataFlag == on {
		return
	}
	d.releaseDataFlag = on
	d.Modified()
}

// GetReleaseDataFlag reports whether the buffer should be released after
// downstream consumption.
func (d *DataObjectBase) GetReleaseDataFlag() bool { return d.releaseDataFlag }

// GetDataReleased reports whether the buffer has been freed and must be
// regenerated before reuse.
func (d *DataObjectBase) GetDataReleased() bool { return d.released }

// ReleaseData frees the object's buffer bookkeeping. Concrete types drop the
// actual storage on top of this.
func (d *DataObjectBase) ReleaseData() {
	d.buffered = region.Zero(d.dim)
	d.released = true
}

// Initialize restores the object to its initial state: all regions empty and
// the buffer released. The producer link survives so the object can be
// regenerated.
func (d *DataObjectBase) Initialize() {
	d.largest = region.Zero(d.dim)
	d.buffered = region.Zero(d.dim)
	d.requested = region.Zero(d.dim)
	d.released = true
	d.Modified()
}

// CopyInformation copies the largest possible region from another object.
// Image layers spacing and origin on top of this.
func (d *DataObjectBase) CopyInformation(src DataObject) error {
	if src.Dim() != d.dim {
		return fmt.Errorf("%w: cannot copy information between %d-dimensional and %d-dimensional objects",
			ErrIncompatibleGeometry, src.Dim(), d.dim)
	}
	d.SetLargestPossibleRegion(src.GetLargestPossibleRegion())
	return nil
}

// GetSource returns the producer that generates this object, if any.
func (d *DataObjectBase) GetSource() Source { return d.source }

// SetSource links the object to the producer that generates it.
func (d *DataObjectBase) SetSource(s Source) { d.source = s }

// Update runs the full protocol in the mandated order: refresh geometry for
// the whole upstream chain, propagate the requested region, then recompute
// whatever is stale.
func (d *DataObjectBase) Update() error {
	obj := d.self()
	if err := obj.UpdateOutputInformation(); err != nil {
		return err
	}
	if err := obj.PropagateRequestedRegion(); err != nil {
		return err
	}
	return obj.UpdateOutputData()
}

// UpdateOutputInformation walks upstream refreshing geometry metadata
// without touching buffers. An object with no producer keeps whatever
// geometry its creator set. A requested region never set explicitly defaults
// to the largest possible region once one is known.
func (d *DataObjectBase) UpdateOutputInformation() error {
	if d.source != nil {
		if err := d.source.UpdateOutputInformation(); err != nil {
			return err
		}
	} else if d.mtime > d.pipelineMTime {
		d.pipelineMTime = d.mtime
	}
	if d.requested.IsEmpty() && !d.largest.IsEmpty() {
		d.SetRequestedRegionToLargestPossibleRegion()
	}
	return nil
}

// PropagateRequestedRegion reconciles the requested region against the
// largest possible region and pushes the requirement upstream. A requested
// region sticking out past the dataset bounds is clamped to the overlapping
// part; a requested region with no overlap at all is an error.
func (d *DataObjectBase) PropagateRequestedRegion() error {
	if !d.VerifyRequestedRegion() {
		cropped, ok := d.requested.Crop(d.largest)
		if !ok {
			return fmt.Errorf("%w: requested %v, largest possible %v",
				ErrRegionOutOfBounds, d.requested, d.largest)
		}
		d.SetRequestedRegion(cropped)
	}
	if d.source != nil {
		return d.source.PropagateRequestedRegion(d.self())
	}
	return nil
}

// UpdateOutputData recomputes the object's contents when they are stale:
// when the buffer does not cover the requested region, when the buffer was
// released, or when something upstream changed after the last generation.
// An object with no producer has nothing to recompute.
func (d *DataObjectBase) UpdateOutputData() error {
	if d.source == nil {
		return nil
	}
	if !d.RequestedRegionIsOutsideBufferedRegion() && !d.released && d.updateMTime >= d.pipelineMTime {
		return nil
	}
	return d.source.UpdateOutputData(d.self())
}

// RequestedRegionIsOutsideBufferedRegion reports whether satisfying the
// requested region needs data not currently buffered.
func (d *DataObjectBase) RequestedRegionIsOutsideBufferedRegion() bool {
	return !d.buffered.Contains(d.requested)
}
