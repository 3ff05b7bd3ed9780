package compose

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"

	"slidecast/internal/filtergraph"
	"slidecast/internal/structure"
	"slidecast/internal/timeline"
)

var (
	slideA   = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	slideB   = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	extraA   = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	recordID = uuid.MustParse("44444444-4444-4444-4444-444444444444")
	pointer  = uuid.MustParse("55555555-5555-5555-5555-555555555555")
	music    = uuid.MustParse("66666666-6666-6666-6666-666666666666")
)

type fakeAssets struct{}

func (fakeAssets) Slide(id uuid.UUID) string      { return "assets/" + id.String()[:2] + ".webp" }
func (fakeAssets) Extra(id uuid.UUID) string      { return "assets/" + id.String()[:2] + ".mp4" }
func (fakeAssets) Record(id uuid.UUID) string     { return "assets/" + id.String()[:2] + ".webm" }
func (fakeAssets) Pointer(id uuid.UUID) string    { return "assets/" + id.String()[:2] + ".webm" }
func (fakeAssets) SoundTrack(id uuid.UUID) string { return "assets/" + id.String()[:2] + ".m4a" }

type fakeFrames struct {
	calls []float64
	err   error
}

func (f *fakeFrames) ExtractFrame(_ context.Context, clip string, seconds float64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.calls = append(f.calls, seconds)
	return "tmp/frame-" + filtergraph.FormatFloat(seconds) + ".webp", nil
}

type fakeProber map[string]float64

func (p fakeProber) Duration(_ context.Context, path string) (float64, error) {
	d, ok := p[path]
	if !ok {
		return 0, errors.New("unknown asset " + path)
	}
	return d, nil
}

func testSettings() Settings {
	return Settings{
		Width:             1920,
		Height:            1080,
		AudioRate:         48000,
		SoundtrackFade:    3,
		PointerColor:      "000000",
		PointerSimilarity: 0.4,
		PointerBlend:      0.1,
		Encoding: filtergraph.Encoding{
			VideoCodec: "libx264", PixelFormat: "yuv420p", FrameRate: 30,
			AudioCodec: "aac", AudioRate: 48000, AudioBitrate: "160k", FastStart: true,
		},
	}
}

func testComposer(frames FrameExtractor, prober timeline.DurationProber) Composer {
	return Composer{
		Settings: testSettings(),
		Assets:   fakeAssets{},
		Timeline: timeline.Resolver{
			DefaultSlideDuration: 3,
			Prober:               prober,
			ExtraPath:            func(s structure.Slide) string { return fakeAssets{}.Extra(*s.Extra) },
		},
		Frames: frames,
	}
}

func i64(v int64) *int64 { return &v }

func recordedSegment(webcam structure.Webcam) structure.Segment {
	extra := extraA
	ptr := pointer
	return structure.Segment{
		Record: &structure.Record{UUID: recordID, PointerUUID: &ptr, Size: &structure.FrameSize{Width: 640, Height: 480}},
		Slides: []structure.Slide{{UUID: slideA, Extra: &extra}, {UUID: slideB}},
		Events: []structure.Event{
			{Type: structure.EventStart, Time: 0},
			{Type: structure.EventPlay, Time: 500, ExtraTime: i64(0)},
			{Type: structure.EventPause, Time: 1500, ExtraTime: i64(1000)},
			{Type: structure.EventPlay, Time: 2000, ExtraTime: i64(1000)},
			{Type: structure.EventNextSlide, Time: 3000},
			{Type: structure.EventEnd, Time: 5000},
		},
		WebcamSettings: &structure.WebcamSettings{Webcam: webcam},
	}
}

func TestSegmentWithoutRecord(t *testing.T) {
	seg := structure.Segment{Slides: []structure.Slide{{UUID: slideA}, {UUID: slideB}}}
	job, err := testComposer(nil, nil).Segment(context.Background(), seg, "produced/out.mp4")
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	want := "-f lavfi -t 6 -i anullsrc=channel_layout=stereo:sample_rate=48000 " +
		"-loop 1 -t 3 -i assets/11.webp -loop 1 -t 3 -i assets/22.webp " +
		"-filter_complex [1:v]setsar=sar=1[s1];[2:v]setsar=sar=1[s2];[s1][s2]concat=n=2:v=1:a=0[s3] " +
		"-map [s3] -map 0:a -c:v libx264 -pix_fmt yuv420p -r 30 -c:a aac -ar 48000 -b:a 160k " +
		"-movflags +faststart produced/out.mp4"
	if got := strings.Join(job.Args(), " "); got != want {
		t.Fatalf("args =\n%s\nwant\n%s", got, want)
	}
}

func TestSegmentRecordedWithExtraPointerAndPip(t *testing.T) {
	frames := &fakeFrames{}
	pip := structure.Pip{
		Anchor:   structure.AnchorBottomRight,
		Opacity:  0.5,
		Position: structure.Position{X: 10, Y: 10},
		Size:     structure.FrameSize{Width: 200, Height: 150},
	}
	job, err := testComposer(frames, nil).Segment(context.Background(), recordedSegment(pip), "out.mp4")
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	wantProgram := strings.Join([]string{
		"[1:v]setsar=sar=1[s1]",
		"[2:v]split=2[s2][s3]",
		"[2:a]asplit=2[s4][s5]",
		"[s2]trim=start=0:duration=1,setpts=PTS-STARTPTS[s6]",
		"[s4]atrim=start=0:duration=1[s7]",
		"[s7]adelay=delays=500:all=1[s8]",
		"[s3]trim=start=1:duration=1,setpts=PTS-STARTPTS[s9]",
		"[s5]atrim=start=1:duration=1[s10]",
		"[s10]adelay=delays=2000:all=1[s11]",
		"[s6][3:v][s9]concat=n=3[s12]",
		"[s1][s12]overlay=0:0[s13]",
		"[4:v]setsar=sar=1[s14]",
		"[s13][s14]concat=n=2:v=1:a=0[s15]",
		"[5:v]colorkey=0x000000:0.4:0.1[s16]",
		"[s15][s16]overlay[s17]",
		"[6:v]scale=200:-1[s18]",
		"[s18]format=rgba,colorchannelmixer=aa=0.5[s19]",
		"[s17][s19]overlay=1710:920[s20]",
		"[0:a][s8][s11][6:a]amix=inputs=4[s21]",
	}, ";")
	if got := job.Graph.Program(); got != wantProgram {
		t.Fatalf("program =\n%s\nwant\n%s", got, wantProgram)
	}

	inputs := job.Graph.Inputs()
	wantInputs := []filtergraph.Input{
		{Path: "anullsrc=channel_layout=stereo:sample_rate=48000", Format: "lavfi", Duration: 5},
		{Path: "assets/11.webp", Loop: true, Duration: 3},
		{Path: "assets/33.mp4"},
		{Path: "tmp/frame-1.webp", Loop: true, Duration: 0.5},
		{Path: "assets/22.webp", Loop: true, Duration: 2},
		{Path: "assets/55.webm"},
		{Path: "assets/44.webm"},
	}
	if !reflect.DeepEqual(inputs, wantInputs) {
		t.Fatalf("inputs =\n%+v\nwant\n%+v", inputs, wantInputs)
	}
	if !reflect.DeepEqual(frames.calls, []float64{1}) {
		t.Fatalf("unexpected frame extraction: %v", frames.calls)
	}
	if !reflect.DeepEqual(job.Graph.Scratch(), []string{"tmp/frame-1.webp"}) {
		t.Fatalf("scratch = %v", job.Graph.Scratch())
	}
	if job.Video.String() != "s20" || job.Audio.String() != "s21" {
		t.Fatalf("unexpected outputs %s %s", job.Video, job.Audio)
	}
}

func TestSegmentDisabledWebcamKeepsRecordAudio(t *testing.T) {
	seg := recordedSegment(structure.Disabled{})
	seg.Record.PointerUUID = nil
	job, err := testComposer(&fakeFrames{}, nil).Segment(context.Background(), seg, "out.mp4")
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	program := job.Graph.Program()
	if strings.Contains(program, "scale=") || strings.Contains(program, "colorkey") {
		t.Fatalf("disabled webcam should not overlay video: %s", program)
	}
	if !strings.HasSuffix(program, "[0:a][s8][s11][5:a]amix=inputs=4[s16]") {
		t.Fatalf("record audio not mixed: %s", program)
	}
}

func TestSegmentFrameExtractionFailure(t *testing.T) {
	boom := errors.New("extract failed")
	_, err := testComposer(&fakeFrames{err: boom}, nil).Segment(context.Background(), recordedSegment(structure.DefaultWebcam()), "out.mp4")
	if !errors.Is(err, boom) {
		t.Fatalf("expected extraction error, got %v", err)
	}
}

func TestExtraWithoutEventsPlaysOnce(t *testing.T) {
	seg := recordedSegment(structure.Disabled{})
	seg.Events = []structure.Event{
		{Type: structure.EventStart, Time: 0},
		{Type: structure.EventNextSlide, Time: 2000},
		{Type: structure.EventEnd, Time: 5000},
	}
	seg.Slides[0], seg.Slides[1] = seg.Slides[1], seg.Slides[0]
	c := testComposer(nil, nil)
	g, out, err := c.Extra(context.Background(), filtergraph.Graph{}, seg, 1)
	if err != nil {
		t.Fatalf("extra: %v", err)
	}
	if out.String() != "0:v" {
		t.Fatalf("expected untrimmed clip video, got %s", out)
	}
	if got := g.Program(); got != "[0:a]adelay=delays=2000:all=1[s1]" {
		t.Fatalf("program = %q", got)
	}
	if q := g.AudioQueue(); len(q) != 1 || q[0].String() != "s1" {
		t.Fatalf("audio queue = %v", q)
	}
}

func TestSegmentDropsEmptyExtraIntervals(t *testing.T) {
	seg := recordedSegment(structure.Disabled{})
	seg.Record.PointerUUID = nil
	seg.Events = []structure.Event{
		{Type: structure.EventStart, Time: 0},
		{Type: structure.EventPlay, Time: 500, ExtraTime: i64(0)},
		{Type: structure.EventPause, Time: 500, ExtraTime: i64(0)},
		{Type: structure.EventPlay, Time: 2000, ExtraTime: i64(0)},
		{Type: structure.EventNextSlide, Time: 3000},
		{Type: structure.EventEnd, Time: 5000},
	}
	if err := seg.Validate(); err != nil {
		t.Fatalf("segment should validate: %v", err)
	}
	frames := &fakeFrames{}
	job, err := testComposer(frames, nil).Segment(context.Background(), seg, "out.mp4")
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	program := job.Graph.Program()
	if strings.Contains(program, ":duration=0") {
		t.Fatalf("zero-length trim left in program: %s", program)
	}
	if n := strings.Count(program, "trim=start="); n != 2 {
		t.Fatalf("expected one trim and one atrim, got %d in %s", n, program)
	}
	if strings.Contains(program, "split=") {
		t.Fatalf("single play interval should not split the clip: %s", program)
	}
	if args := strings.Join(job.Args(), " "); strings.Contains(args, "-t 0 ") {
		t.Fatalf("zero-length input in args: %s", args)
	}
	if !reflect.DeepEqual(frames.calls, []float64{0}) {
		t.Fatalf("frame extraction = %v, want one pause frame", frames.calls)
	}
}

func TestExtraWithOnlyEmptyIntervalsIsNotOverlaid(t *testing.T) {
	seg := recordedSegment(structure.Disabled{})
	seg.Events = []structure.Event{
		{Type: structure.EventStart, Time: 0},
		{Type: structure.EventPlay, Time: 3000, ExtraTime: i64(0)},
		{Type: structure.EventNextSlide, Time: 3000},
		{Type: structure.EventEnd, Time: 5000},
	}
	c := testComposer(&fakeFrames{}, nil)
	g, out, err := c.Extra(context.Background(), filtergraph.Graph{}, seg, 0)
	if err != nil {
		t.Fatalf("extra: %v", err)
	}
	if !out.IsZero() || g.Program() != "" || len(g.Inputs()) != 0 {
		t.Fatalf("expected nothing composed, got %s / %q", out, g.Program())
	}
	g, slide, err := c.Slide(context.Background(), filtergraph.Graph{}, seg, 0)
	if err != nil {
		t.Fatalf("slide: %v", err)
	}
	if strings.Contains(g.Program(), "overlay") || slide.IsZero() {
		t.Fatalf("slide should be the bare still: %q", g.Program())
	}
}

func TestExtraWithoutRecordUsesProbedDuration(t *testing.T) {
	extra := extraA
	seg := structure.Segment{Slides: []structure.Slide{{UUID: slideA, Extra: &extra}}}
	c := testComposer(nil, fakeProber{"assets/33.mp4": 4.5})
	job, err := c.Segment(context.Background(), seg, "out.mp4")
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	inputs := job.Graph.Inputs()
	if inputs[0].Duration != 4.5 || inputs[1].Duration != 4.5 {
		t.Fatalf("expected probed durations, got %+v", inputs)
	}
	want := "[1:v]setsar=sar=1[s1];[s1][2:v]overlay=0:0[s2];[0:a][2:a]amix=inputs=2[s3]"
	if got := job.Graph.Program(); got != want {
		t.Fatalf("program = %q, want %q", got, want)
	}
}

func TestSlideLeavesInputGraphUntouched(t *testing.T) {
	seg := structure.Segment{Slides: []structure.Slide{{UUID: slideA}}}
	base, _ := filtergraph.Graph{}.AddInput(filtergraph.Input{Path: "base"})
	next, _, err := testComposer(nil, nil).Slide(context.Background(), base, seg, 0)
	if err != nil {
		t.Fatalf("slide: %v", err)
	}
	if len(base.Inputs()) != 1 || len(base.Statements()) != 0 {
		t.Fatalf("base graph mutated")
	}
	if len(next.Inputs()) != 2 || len(next.Statements()) != 1 {
		t.Fatalf("unexpected derived graph: %d inputs %d statements", len(next.Inputs()), len(next.Statements()))
	}
}

func TestRecordPosition(t *testing.T) {
	size := &structure.FrameSize{Width: 640, Height: 480}
	pip := func(anchor structure.Anchor) structure.Webcam {
		return structure.Pip{Anchor: anchor, Opacity: 1, Position: structure.Position{X: 10, Y: 10}, Size: structure.FrameSize{Width: 200, Height: 150}}
	}
	tests := []struct {
		name   string
		webcam structure.Webcam
		size   *structure.FrameSize
		x, y   int
	}{
		{"top left", pip(structure.AnchorTopLeft), size, 10, 10},
		{"top right", pip(structure.AnchorTopRight), size, 1920 - 200 - 10, 10},
		{"bottom left", pip(structure.AnchorBottomLeft), size, 10, 1080 - 150 - 10},
		{"bottom right", pip(structure.AnchorBottomRight), size, 1710, 920},
		{"fullscreen pillarbox", structure.Fullscreen{Opacity: 1}, size, 240, 0},
		{"fullscreen letterbox", structure.Fullscreen{Opacity: 1}, &structure.FrameSize{Width: 1920, Height: 800}, 0, 140},
	}
	c := testComposer(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg := structure.Segment{
				Record:         &structure.Record{UUID: recordID, Size: tt.size},
				WebcamSettings: &structure.WebcamSettings{Webcam: tt.webcam},
			}
			x, y, err := c.RecordPosition(seg)
			if err != nil {
				t.Fatalf("position: %v", err)
			}
			if x != tt.x || y != tt.y {
				t.Fatalf("position = (%d,%d), want (%d,%d)", x, y, tt.x, tt.y)
			}
		})
	}
}

func TestFullscreenRecordWidth(t *testing.T) {
	seg := structure.Segment{
		Record:         &structure.Record{UUID: recordID, Size: &structure.FrameSize{Width: 640, Height: 480}},
		WebcamSettings: &structure.WebcamSettings{Webcam: structure.Fullscreen{Opacity: 1}},
	}
	g, out, visible, err := testComposer(nil, nil).Record(filtergraph.Graph{}, seg)
	if err != nil || !visible {
		t.Fatalf("record: visible=%v err=%v", visible, err)
	}
	if got := g.Program(); got != "[0:v]scale=1440:-1[s1]" {
		t.Fatalf("program = %q", got)
	}
	if out.String() != "s1" || len(g.AudioQueue()) != 1 {
		t.Fatalf("unexpected record outputs %s %v", out, g.AudioQueue())
	}
}

func TestAudioOnlyRecordProducesNoVideo(t *testing.T) {
	seg := structure.Segment{Record: &structure.Record{UUID: recordID}}
	g, _, visible, err := testComposer(nil, nil).Record(filtergraph.Graph{}, seg)
	if err != nil || visible {
		t.Fatalf("record: visible=%v err=%v", visible, err)
	}
	if len(g.Statements()) != 0 || len(g.AudioQueue()) != 1 {
		t.Fatalf("expected only queued audio, got %q %v", g.Program(), g.AudioQueue())
	}
}

func TestSoundtrack(t *testing.T) {
	g, out, err := testComposer(nil, nil).Soundtrack(filtergraph.Graph{}, "music.m4a", 0.5, 10, 25)
	if err != nil {
		t.Fatalf("soundtrack: %v", err)
	}
	want := strings.Join([]string{
		"[0:a]afade=t=in:st=0:d=3,afade=t=out:st=7:d=3[s1]",
		"[s1]volume=0.5[s2]",
		"[s2]asplit=3[s3][s4][s5]",
		"[s3][s4][s5]concat=n=3:v=0:a=1[s6]",
		"[s6]afade=t=out:st=22:d=3[s7]",
		"[s7]atrim=0:25[s8]",
	}, ";")
	if got := g.Program(); got != want {
		t.Fatalf("program =\n%s\nwant\n%s", got, want)
	}
	if out.String() != "s8" {
		t.Fatalf("unexpected output %s", out)
	}
	if _, _, err := testComposer(nil, nil).Soundtrack(filtergraph.Graph{}, "music.m4a", 1, 0, 25); err == nil {
		t.Fatalf("expected error for zero-length soundtrack")
	}
}

func TestSoundtrackVolumeOutsideUnitRangeIsFullLevel(t *testing.T) {
	tests := []struct {
		volume float64
		want   bool
	}{
		{0, false},
		{0.0004, false},
		{0.25, true},
		{1, false},
		{1.5, false},
		{-0.5, false},
	}
	for _, tt := range tests {
		g, _, err := testComposer(nil, nil).Soundtrack(filtergraph.Graph{}, "music.m4a", tt.volume, 10, 25)
		if err != nil {
			t.Fatalf("soundtrack(%v): %v", tt.volume, err)
		}
		if got := strings.Contains(g.Program(), "volume="); got != tt.want {
			t.Fatalf("volume %v: filter present=%v, want %v in %q", tt.volume, got, tt.want, g.Program())
		}
	}
}

func TestRepeatCount(t *testing.T) {
	tests := []struct {
		capsule, track float64
		want           int
	}{
		{25, 10, 3},
		{6, 10, 1},
		{20, 10, 3},
		{9.999, 10, 1},
	}
	for _, tt := range tests {
		if got := RepeatCount(tt.capsule, tt.track); got != tt.want {
			t.Fatalf("RepeatCount(%v, %v) = %d, want %d", tt.capsule, tt.track, got, tt.want)
		}
	}
}

func TestCapsuleJob(t *testing.T) {
	capsule := structure.Capsule{
		Structure: []structure.Segment{
			{Slides: []structure.Slide{{UUID: slideA}}},
			{Slides: []structure.Slide{{UUID: slideB}}},
		},
		SoundTrack: &structure.SoundTrack{UUID: music, Volume: 1},
	}
	c := testComposer(nil, fakeProber{"assets/66.m4a": 10})
	job, err := c.Capsule(context.Background(), capsule, []string{"seg0.mp4", "seg1.mp4"}, "capsule.mp4")
	if err != nil {
		t.Fatalf("capsule: %v", err)
	}
	want := strings.Join([]string{
		"[0:v][0:a][1:v][1:a]concat=n=2:v=1:a=1[s1][s2]",
		"[2:a]afade=t=in:st=0:d=3,afade=t=out:st=7:d=3[s3]",
		"[s3]asplit=1[s4]",
		"[s4]concat=n=1:v=0:a=1[s5]",
		"[s5]afade=t=out:st=3:d=3[s6]",
		"[s6]atrim=0:6[s7]",
		"[s2][s7]amix=inputs=2[s8]",
	}, ";")
	if got := job.Graph.Program(); got != want {
		t.Fatalf("program =\n%s\nwant\n%s", got, want)
	}
	if job.Video.String() != "s1" || job.Audio.String() != "s8" {
		t.Fatalf("unexpected outputs %s %s", job.Video, job.Audio)
	}
}

func TestCapsuleSingleSegmentMapsInputDirectly(t *testing.T) {
	capsule := structure.Capsule{Structure: []structure.Segment{{Slides: []structure.Slide{{UUID: slideA}}}}}
	job, err := testComposer(nil, nil).Capsule(context.Background(), capsule, []string{"seg0.mp4"}, "capsule.mp4")
	if err != nil {
		t.Fatalf("capsule: %v", err)
	}
	args := strings.Join(job.Args(), " ")
	if strings.Contains(args, "-filter_complex") || !strings.Contains(args, "-map 0:v -map 0:a") {
		t.Fatalf("unexpected args: %s", args)
	}
}

func TestAudioMixRequiresSource(t *testing.T) {
	if _, _, err := AudioMix(filtergraph.Graph{}); err == nil {
		t.Fatalf("expected error for empty audio queue")
	}
}
