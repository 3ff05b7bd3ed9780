package filtergraph

import (
	"fmt"
	"slices"
	"strings"
)

// Input is a declared ffmpeg input. Looped inputs always carry -t so a
// still image never plays forever.
type Input struct {
	Path     string
	Format   string
	Loop     bool
	Duration float64
}

// Args renders the options that precede and include -i.
func (in Input) Args() []string {
	args := make([]string, 0, 8)
	if in.Format != "" {
		args = append(args, "-f", in.Format)
	}
	if in.Loop {
		args = append(args, "-loop", "1")
	}
	if in.Duration > 0 || in.Loop {
		args = append(args, "-t", FormatFloat(in.Duration))
	}
	return append(args, "-i", in.Path)
}

// Graph is the immutable build context of one render unit.
type Graph struct {
	inputs     []Input
	statements []Statement
	next       int
	audio      []Handle
	scratch    []string
}

// AllocateHandle returns a fresh label that is never reused in this graph
// or any graph derived from it.
func (g Graph) AllocateHandle() (Graph, Handle) {
	g.next++
	h := Handle{label: g.next}
	return g, h
}

// AddInput declares an input and returns its index.
func (g Graph) AddInput(in Input) (Graph, int) {
	g.inputs = append(slices.Clip(g.inputs), in)
	return g, len(g.inputs) - 1
}

// AddFilter appends a statement consuming inputs and producing outputs
// freshly allocated handles.
func (g Graph) AddFilter(inputs []Handle, chain Chain, outputs int) (Graph, []Handle) {
	if outputs < 1 {
		outputs = 1
	}
	outs := make([]Handle, outputs)
	for i := range outs {
		g, outs[i] = g.AllocateHandle()
	}
	g.statements = append(slices.Clip(g.statements), Statement{
		Inputs:  slices.Clone(inputs),
		Chain:   slices.Clone(chain),
		Outputs: outs,
	})
	return g, outs
}

// Apply runs a single-output chain over inputs.
func (g Graph) Apply(inputs []Handle, filters ...Filter) (Graph, Handle) {
	g, outs := g.AddFilter(inputs, Chain(filters), 1)
	return g, outs[0]
}

// QueueAudio registers an audio stream for the final mix.
func (g Graph) QueueAudio(h Handle) Graph {
	g.audio = append(slices.Clip(g.audio), h)
	return g
}

// AddScratch registers a temporary file owned by this render unit.
func (g Graph) AddScratch(path string) Graph {
	g.scratch = append(slices.Clip(g.scratch), path)
	return g
}

// Inputs returns the declared inputs in order.
func (g Graph) Inputs() []Input { return slices.Clone(g.inputs) }

// Statements returns the filter statements in order.
func (g Graph) Statements() []Statement { return slices.Clone(g.statements) }

// AudioQueue returns the audio streams queued for mixing.
func (g Graph) AudioQueue() []Handle { return slices.Clone(g.audio) }

// Scratch returns the temporary files registered so far.
func (g Graph) Scratch() []string { return slices.Clone(g.scratch) }

// Program renders the filter_complex argument.
func (g Graph) Program() string {
	parts := make([]string, len(g.statements))
	for i, s := range g.statements {
		parts[i] = s.String()
	}
	return strings.Join(parts, ";")
}

// Encoding holds the output codec parameters.
type Encoding struct {
	VideoCodec   string
	PixelFormat  string
	FrameRate    int
	AudioCodec   string
	AudioRate    int
	AudioBitrate string
	FastStart    bool
}

// Job is a complete render unit.
type Job struct {
	Graph    Graph
	Video    Handle
	Audio    Handle
	Output   string
	Encoding Encoding
}

// Validate checks that the job maps both outputs to a destination.
func (j Job) Validate() error {
	switch {
	case j.Video.IsZero():
		return fmt.Errorf("job has no video output")
	case j.Audio.IsZero():
		return fmt.Errorf("job has no audio output")
	case strings.TrimSpace(j.Output) == "":
		return fmt.Errorf("job has no output path")
	case len(j.Graph.inputs) == 0:
		return fmt.Errorf("job has no inputs")
	}
	return nil
}

// Args renders the job as ffmpeg arguments, excluding global flags.
func (j Job) Args() []string {
	args := make([]string, 0, 8*len(j.Graph.inputs)+24)
	for _, in := range j.Graph.inputs {
		args = append(args, in.Args()...)
	}
	if len(j.Graph.statements) > 0 {
		args = append(args, "-filter_complex", j.Graph.Program())
	}
	args = append(args, "-map", j.Video.MapArg(), "-map", j.Audio.MapArg())
	enc := j.Encoding
	args = append(args,
		"-c:v", enc.VideoCodec,
		"-pix_fmt", enc.PixelFormat,
		"-r", fmt.Sprint(enc.FrameRate),
		"-c:a", enc.AudioCodec,
		"-ar", fmt.Sprint(enc.AudioRate),
		"-b:a", enc.AudioBitrate,
	)
	if enc.FastStart {
		args = append(args, "-movflags", "+faststart")
	}
	return append(args, j.Output)
}
