package production

import (
	"context"

	"slidecast/internal/prodcache"
	"slidecast/internal/structure"
)

// SegmentPlan is the cache decision for one segment.
type SegmentPlan struct {
	Index      int
	Duration   float64
	Slides     int
	Sentences  int // prompt sentences across all slides
	Recorded   bool
	StoredHash string
	Hash       string
	Outcome    prodcache.Outcome
	Output     string
	Present    bool
	Size       int64
}

// Plan reports what ProduceCapsule would do for each segment without
// rendering anything. A segment whose hash matches but whose output is
// missing is planned as a rebuild.
func (p *Producer) Plan(ctx context.Context, capsule structure.Capsule) ([]SegmentPlan, error) {
	res := p.resolver()
	plans := make([]SegmentPlan, 0, len(capsule.Structure))
	for i, seg := range capsule.Structure {
		decision, err := p.decideSegment(seg)
		if err != nil {
			return nil, err
		}
		duration, err := res.SegmentDuration(ctx, seg)
		if err != nil {
			return nil, err
		}
		plan := SegmentPlan{
			Index:    i,
			Duration: duration,
			Slides:   len(seg.Slides),
			Recorded: seg.Record != nil,
			Hash:     decision.Key,
			Outcome:  prodcache.Rebuild,
			Output:   p.store.SegmentOutput(decision.Key),
		}
		for _, slide := range seg.Slides {
			plan.Sentences += len(slide.Sentences())
		}
		if seg.ProducedHash != nil {
			plan.StoredHash = *seg.ProducedHash
		}
		plan.Size, plan.Present = p.store.OutputInfo(plan.Output)
		if p.current(decision, plan.Output) {
			plan.Outcome = prodcache.Hit
		}
		plans = append(plans, plan)
	}
	return plans, nil
}
