package pipeline

import "fmt"

// ProgressCallback is a function that reports progress while a producer
// generates data.
type ProgressCallback func(completed, total int, message string)

// FilterHooks are the customization points a concrete filter overrides to
// define its behavior. ProcessObject provides the defaults: geometry and
// requested regions pass through unchanged, and GenerateData does nothing.
//
// A concrete filter embeds *ProcessObject, overrides the hooks it cares
// about, and registers itself with SetHooks so the protocol dispatches to
// the overridden versions.
type FilterHooks interface {
	// GenerateOutputInformation sets output geometry (largest possible
	// region, spacing, origin) from the inputs and the filter's own
	// parameters.
	GenerateOutputInformation() error

	// GenerateInputRequestedRegion declares what each input must provide
	// for the filter to produce its output's requested region. The
	// declared requirement may be conservatively larger than strictly
	// needed.
	GenerateInputRequestedRegion() error

	// EnlargeOutputRequestedRegion lets filters that can only produce
	// certain region shapes grow the output request before propagation.
	EnlargeOutputRequestedRegion(output DataObject)

	// GenerateData computes the output's requested region.
	GenerateData() error
}

// ProcessObject is the producer half of the pipeline: it owns the filter's
// inputs and outputs and drives the three-phase update protocol over them.
// Concrete filters embed a *ProcessObject and override FilterHooks methods.
type ProcessObject struct {
	hooks FilterHooks

	inputs  []DataObject
	outputs []DataObject

	mtime     uint64
	infoMTime uint64
	updating  bool

	progress ProgressCallback
}

// NewProcessObject creates a producer with no inputs or outputs wired yet.
// The returned object dispatches hooks to itself (the defaults) until a
// concrete filter registers itself with SetHooks.
func NewProcessObject() *ProcessObject {
	p := &ProcessObject{mtime: NextMTime()}
	p.hooks = p
	return p
}

// SetHooks registers the concrete filter whose hook overrides the protocol
// should dispatch to. Called once from the filter's constructor.
func (p *ProcessObject) SetHooks(h FilterHooks) {
	p.hooks = h
}

// Modified advances the producer's modification time. Filters call it from
// every parameter setter so the protocol notices the change.
func (p *ProcessObject) Modified() {
	p.mtime = NextMTime()
}

// GetMTime returns the producer's modification time.
func (p *ProcessObject) GetMTime() uint64 { return p.mtime }

// SetNthInput wires a data object as the producer's i-th input.
func (p *ProcessObject) SetNthInput(i int, in DataObject) {
	for len(p.inputs) <= i {
		p.inputs = append(p.inputs, nil)
	}
	if p.inputs[i] == in {
		return
	}
	p.inputs[i] = in
	p.Modified()
}

// GetInput returns the i-th input, or nil when unset.
func (p *ProcessObject) GetInput(i int) DataObject {
	if i < 0 || i >= len(p.inputs) {
		return nil
	}
	return p.inputs[i]
}

// SetNthOutput wires a data object as the producer's i-th output and links
// the object back to this producer.
func (p *ProcessObject) SetNthOutput(i int, out DataObject) {
	for len(p.outputs) <= i {
		p.outputs = append(p.outputs, nil)
	}
	p.outputs[i] = out
	out.SetSource(p)
	p.Modified()
}

// GetOutputObject returns the i-th output, or nil when unset.
func (p *ProcessObject) GetOutputObject(i int) DataObject {
	if i < 0 || i >= len(p.outputs) {
		return nil
	}
	return p.outputs[i]
}

// SetProgressCallback installs an optional observer invoked while the filter
// generates data.
func (p *ProcessObject) SetProgressCallback(cb ProgressCallback) {
	p.progress = cb
}

// UpdateProgress reports progress to the installed callback, if any.
func (p *ProcessObject) UpdateProgress(completed, total int, message string) {
	if p.progress != nil {
		p.progress(completed, total, message)
	}
}

// Update is a convenience that runs the full protocol on the first output.
func (p *ProcessObject) Update() error {
	if len(p.outputs) == 0 || p.outputs[0] == nil {
		return nil
	}
	return p.outputs[0].Update()
}

// UpdateOutputInformation recursively refreshes upstream geometry, then
// regenerates this filter's output geometry if the filter or anything
// upstream changed since the last pass. Repeated calls with nothing changed
// degrade to timestamp comparisons.
func (p *ProcessObject) UpdateOutputInformation() error {
	if p.updating {
		return nil
	}
	p.updating = true
	defer func() { p.updating = false }()

	t := p.mtime
	for _, in := range p.inputs {
		if in == nil {
			continue
		}
		if err := in.UpdateOutputInformation(); err != nil {
			return err
		}
		if mt := in.GetMTime(); mt > t {
			t = mt
		}
		if pt := in.GetPipelineMTime(); pt > t {
			t = pt
		}
	}

	if t > p.infoMTime {
		if err := p.hooks.GenerateOutputInformation(); err != nil {
			return err
		}
		p.infoMTime = t
	}
	for _, out := range p.outputs {
		if out != nil && t > out.GetPipelineMTime() {
			out.SetPipelineMTime(t)
		}
	}
	return nil
}

// GenerateOutputInformation is the default geometry hook: every output
// copies the first input's geometry. Source filters with no inputs override
// this to define geometry from their parameters.
func (p *ProcessObject) GenerateOutputInformation() error {
	if len(p.inputs) == 0 || p.inputs[0] == nil {
		return nil
	}
	for _, out := range p.outputs {
		if out == nil {
			continue
		}
		if err := out.CopyInformation(p.inputs[0]); err != nil {
			return err
		}
	}
	return nil
}

// PropagateRequestedRegion converts the output's requested region into input
// requirements and pushes them upstream. The output arrives already clamped
// by DataObject.PropagateRequestedRegion; a request that still fails
// verification here is a hard error.
func (p *ProcessObject) PropagateRequestedRegion(output DataObject) error {
	if p.updating {
		return nil
	}
	p.updating = true
	defer func() { p.updating = false }()

	if output != nil {
		p.hooks.EnlargeOutputRequestedRegion(output)
		if !output.VerifyRequestedRegion() {
			return fmt.Errorf("%w: requested %v, largest possible %v",
				ErrRegionOutOfBounds, output.GetRequestedRegion(), output.GetLargestPossibleRegion())
		}
	}
	if err := p.hooks.GenerateInputRequestedRegion(); err != nil {
		return err
	}
	for _, in := range p.inputs {
		if in == nil {
			continue
		}
		if err := in.PropagateRequestedRegion(); err != nil {
			return err
		}
	}
	return nil
}

// GenerateInputRequestedRegion is the default requirement hook: each input
// must provide exactly the output's requested region. Filters whose stencil
// needs more (or different geometry) override this.
func (p *ProcessObject) GenerateInputRequestedRegion() error {
	if len(p.outputs) == 0 || p.outputs[0] == nil {
		return nil
	}
	out := p.outputs[0]
	for _, in := range p.inputs {
		if in == nil {
			continue
		}
		if err := in.SetRequestedRegionFrom(out); err != nil {
			return err
		}
	}
	return nil
}

// EnlargeOutputRequestedRegion is a no-op by default: most filters can
// produce any sub-region they are asked for.
func (p *ProcessObject) EnlargeOutputRequestedRegion(DataObject) {}

// GenerateData is the default computation hook: nothing to compute.
func (p *ProcessObject) GenerateData() error { return nil }

// UpdateOutputData brings every input up to date, verifies the outputs'
// requested regions one last time, runs the filter's computation, and marks
// the outputs freshly generated. Inputs flagged for release are freed once
// consumed.
func (p *ProcessObject) UpdateOutputData(DataObject) error {
	if p.updating {
		return nil
	}
	p.updating = true
	defer func() { p.updating = false }()

	for _, in := range p.inputs {
		if in == nil {
			continue
		}
		if err := in.UpdateOutputData(); err != nil {
			return err
		}
	}
	for _, out := range p.outputs {
		if out != nil && !out.VerifyRequestedRegion() {
			return fmt.Errorf("%w: requested %v, largest possible %v",
				ErrRegionOutOfBounds, out.GetRequestedRegion(), out.GetLargestPossibleRegion())
		}
	}

	if err := p.hooks.GenerateData(); err != nil {
		return err
	}
	for _, out := range p.outputs {
		if out != nil {
			out.DataHasBeenGenerated()
		}
	}
	for _, in := range p.inputs {
		if in != nil && in.GetReleaseDataFlag() {
			in.ReleaseData()
		}
	}
	return nil
}
