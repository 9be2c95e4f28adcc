package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/lelani/transport-backend/internal/config"
	"github.com/lelani/transport-backend/internal/database"
	"github.com/lelani/transport-backend/internal/logger"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/lelani/transport-backend/internal/repository"
)

var (
	areas   = []string{"Kilimani", "Lavington", "Westlands", "Kileleshwa"}
	classes = []string{"Grade 1", "Grade 2", "Grade 3", "Grade 4", "Grade 5", "Grade 6"}
	names   = []string{
		"Amani Otieno", "Baraka Mwangi", "Chebet Kiprono", "Dalia Wanjiru", "Eli Kamau",
		"Faith Achieng", "Gift Mutua", "Hawi Njeri", "Imani Wekesa", "Jabali Ochieng",
		"Kioko Musyoka", "Lulu Atieno", "Makena Gitau", "Neema Chepkoech", "Omari Said",
		"Pendo Akinyi", "Rehema Nduta", "Sefu Kariuki", "Tumaini Wairimu", "Upendo Moraa",
		"Wanjala Simiyu", "Zawadi Nyambura", "Adhiambo Odhiambo", "Brian Kiptoo", "Cynthia Muthoni",
	}
)

func main() {
	var routeName string
	flag.StringVar(&routeName, "route", "Route A", "Route to seed learners onto")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, "")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	routeRepo := repository.NewRouteRepository(pool)
	areaRepo := repository.NewAreaRepository(pool)
	learnerRepo := repository.NewLearnerRepository(pool)

	fmt.Printf("=== Seeding %d learners on %s ===\n", len(names), routeName)

	route, err := routeRepo.FindByName(ctx, routeName)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		fmt.Printf("%s not found. Creating it...\n", routeName)
		route = &model.Route{
			Name:      routeName,
			VehicleNo: "KDA 123A",
			Areas:     areas,
			Term:      "Term 1",
			Year:      time.Now().Year(),
			Status:    model.RouteStatusActive,
		}
		if err := routeRepo.Create(ctx, route); err != nil {
			log.Fatal().Err(err).Msg("Failed to create route")
		}
	case err != nil:
		log.Fatal().Err(err).Msg("Failed to look up route")
	default:
		fmt.Printf("Found existing route with ID: %s\n", route.ID)
	}

	pickup := make([]model.Area, len(areas))
	for i, a := range areas {
		pickup[i] = model.Area{Name: a, RouteID: route.ID, PickupOrder: i + 1}
	}
	if _, err := areaRepo.CreateMany(ctx, pickup); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed pickup areas")
	}

	learners := make([]model.Learner, len(names))
	for i, name := range names {
		routeID := route.ID
		learners[i] = model.Learner{
			Name:        name,
			AdmissionNo: fmt.Sprintf("SEED-%04d", i+1),
			Class:       classes[i%len(classes)],
			RouteID:     &routeID,
			Trip:        1 + i%2,
			PickupArea:  areas[i%len(areas)],
			PickupTime:  fmt.Sprintf("06:%02d", 30+i),
			DropoffArea: areas[i%len(areas)],
			DropTime:    "16:30",
			FatherPhone: fmt.Sprintf("+2547%08d", 10000000+i),
			MotherPhone: fmt.Sprintf("+2547%08d", 20000000+i),
			Active:      i%10 != 9,
		}
	}

	n, err := learnerRepo.Upsert(ctx, learners)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed learners")
	}

	fmt.Printf("Done. %d learners written.\n", n)
}
