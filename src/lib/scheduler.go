package lib

import (
	"log"

	"github.com/go-co-op/gocron/v2"
)

var scheduler gocron.Scheduler

func GetScheduler() (gocron.Scheduler, error) {
	if scheduler == nil {
		sched, err := gocron.NewScheduler()
		if err != nil {
			log.Printf("Error creating Scheduler instance: %s\n", err.Error())
			return nil, err
		}
		scheduler = sched
	}
	return scheduler, nil
}
