package timeline

import (
	"hash/fnv"

	"scenecast/internal/models"
)

// MotionVector is a pure function of id: hash(id) mod 8 indexes into
// models.Directions. Same id always yields the same direction, in this
// process or any other (spec §3 invariant 4, §9 determinism note).
func MotionVector(id string) models.MotionDirection {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	idx := h.Sum32() % uint32(len(models.Directions))
	return models.Directions[idx]
}
