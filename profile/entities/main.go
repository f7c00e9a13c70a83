// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	"github.com/edwinsyarief/archecs"
	"github.com/pkg/profile"
)

type position struct {
	X int64
	Y int64
}

type velocity struct {
	X int64
	Y int64
}

func main() {
	count := 50
	iters := 10000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		w := ecs.New()

		spawned := make([]ecs.Entity, 0, numEntities)
		for range iters {
			spawned = spawned[:0]
			for range numEntities {
				e := w.Spawn(ecs.Single[position]{Value: position{X: 1, Y: 1}})
				w.Insert(e, ecs.Single[velocity]{Value: velocity{X: 1, Y: 1}})
				spawned = append(spawned, e)
			}
			for _, e := range spawned {
				if pos, ok := ecs.GetComponent[position](w, e); ok {
					vel, _ := ecs.GetComponent[velocity](w, e)
					pos.X += vel.X
					pos.Y += vel.Y
				}
			}
			for _, e := range spawned {
				w.Despawn(e)
			}
		}
	}
}
