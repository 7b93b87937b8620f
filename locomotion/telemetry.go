package locomotion

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
)

// JumpReport summarizes a completed jump.
type JumpReport struct {
	Start    mgl64.Vec3
	End      mgl64.Vec3
	Airtime  float64
	Distance float64
}

type jumpTracker struct {
	active  bool
	start   mgl64.Vec3
	airtime float64
	nextLog float64

	last    JumpReport
	hasLast bool
}

func (j *jumpTracker) begin(pos mgl64.Vec3, logger *log.Logger) {
	j.active = true
	j.start = pos
	j.airtime = 0
	j.nextLog = 0
	logger.Printf("jump: started at (%.2f, %.2f, %.2f)", pos.X(), pos.Y(), pos.Z())
}

func (j *jumpTracker) advance(dt float64, pos mgl64.Vec3, interval float64, logger *log.Logger) {
	if !j.active {
		return
	}
	j.airtime += dt
	if interval <= 0 || j.airtime < j.nextLog+interval {
		return
	}
	j.nextLog += interval
	logger.Printf("jump: airtime %.2fs distance %.2f", j.airtime, pos.Sub(j.start).Len())
}

func (j *jumpTracker) end(pos mgl64.Vec3, logger *log.Logger) {
	if !j.active {
		return
	}
	j.active = false
	j.last = JumpReport{
		Start:    j.start,
		End:      pos,
		Airtime:  j.airtime,
		Distance: pos.Sub(j.start).Len(),
	}
	j.hasLast = true
	logger.Printf("jump: landed after %.2fs, total distance %.2f", j.airtime, j.last.Distance)
}
