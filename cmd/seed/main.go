package main

import (
	"context"

	"go.uber.org/zap"

	"servicehub/internal/config"
	"servicehub/internal/database"
	"servicehub/internal/domain"
	"servicehub/internal/repository"
)

// Seeds a development database with a small catalog, two workers and their
// weekly schedules.
func main() {
	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("database connect", zap.Error(err))
	}
	if err := database.Migrate(db, repository.Models()...); err != nil {
		log.Fatal("database migrate", zap.Error(err))
	}

	ctx := context.Background()
	serviceRepo := repository.NewServiceRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	services := []*domain.Service{
		{Name: "Deep cleaning", DurationMinutes: 120, PriceType: domain.PriceHourly, BasePrice: 35, Category: "cleaning", IsActive: true},
		{Name: "Plumbing call-out", DurationMinutes: 60, PriceType: domain.PriceHourly, BasePrice: 55, Category: "repair", IsActive: true},
		{Name: "Boiler inspection", DurationMinutes: 45, PriceType: domain.PriceFixed, BasePrice: 80, Category: "repair", IsActive: true},
	}
	for _, s := range services {
		if err := serviceRepo.Create(ctx, s); err != nil {
			log.Fatal("seed service", zap.String("name", s.Name), zap.Error(err))
		}
	}

	workers := []*domain.Worker{
		{
			UserID:       1001,
			Bio:          "Cleaning specialist, 6 years on the platform",
			Skills:       []string{"cleaning", "windows"},
			HourlyRate:   30,
			ServiceAreas: []string{"north", "center"},
			Phone:        "+15550100",
			IsAvailable:  true,
			Rating:       4.8,
		},
		{
			UserID:       1002,
			Bio:          "Licensed plumber and gas engineer",
			Skills:       []string{"plumbing", "heating"},
			HourlyRate:   60,
			ServiceAreas: []string{"center", "south"},
			Phone:        "+15550101",
			IsAvailable:  true,
			Rating:       4.6,
		},
	}
	for _, w := range workers {
		w.RecalculateCompletion()
		if err := workerRepo.Create(ctx, w); err != nil {
			log.Fatal("seed worker", zap.Int64("user_id", w.UserID), zap.Error(err))
		}
	}

	links := []*domain.WorkerService{
		{WorkerID: workers[0].ID, ServiceID: services[0].ID, IsEnabled: true},
		{WorkerID: workers[1].ID, ServiceID: services[1].ID, IsEnabled: true},
		{WorkerID: workers[1].ID, ServiceID: services[2].ID, CustomPrice: ptr(70.0), IsEnabled: true},
	}
	for _, l := range links {
		if err := workerRepo.UpsertService(ctx, l); err != nil {
			log.Fatal("seed link", zap.Error(err))
		}
	}

	// Mon-Fri 09:00-18:00 for both workers.
	for _, w := range workers {
		for day := 1; day <= 5; day++ {
			slot := &domain.AvailabilitySlot{
				WorkerID:    w.ID,
				DayOfWeek:   day,
				StartTime:   "09:00",
				EndTime:     "18:00",
				IsAvailable: true,
			}
			if err := scheduleRepo.CreateSlot(ctx, slot); err != nil {
				log.Fatal("seed slot", zap.Error(err))
			}
		}
	}

	log.Info("seed complete",
		zap.Int("services", len(services)),
		zap.Int("workers", len(workers)),
	)
}

func ptr[T any](v T) *T { return &v }
