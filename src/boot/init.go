package boot

import (
	"context"
	"log"

	"sbs/src/config"
	"sbs/src/db"
	"sbs/src/lib"
	"sbs/src/models"
	"sbs/src/sweep"

	"gorm.io/gorm"
)

// slotIndexDDL is the store-level double-booking backstop. The index is
// partial: only live confirmed rows occupy a slot, so cancelling or purging a
// reservation frees its (date, start_time) for rebooking. gorm tags cannot
// express the WHERE clause, hence the raw statement.
const slotIndexDDL = `CREATE UNIQUE INDEX IF NOT EXISTS idx_slot ON reservations (date, start_time) WHERE status = 'confirmed' AND deleted_at IS NULL`

func createSlotIndex(db *gorm.DB) error {
	return db.Exec(slotIndexDDL).Error
}

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.Customer{},
		&models.Reservation{},
		&models.NotificationLog{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}
	if err := createSlotIndex(db); err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitScheduler registers the daily sweep and starts the scheduler.
func InitScheduler(sweeper *sweep.Sweeper) {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	_, err = lib.CreateDailyJob("daily-sweep", config.SWEEP_HOUR, 0, func() {
		sweeper.Run(context.Background())
	})
	if err != nil {
		log.Printf("Error scheduling daily sweep: %s\n", err.Error())
		return
	}
	log.Println("Jobs in queue:", len(sched.Jobs()))
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
		return
	}
}
