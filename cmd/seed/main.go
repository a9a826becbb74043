// Command seed fills a development database with fake votes and comments.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"

	"pulseboard/internal/config"
	"pulseboard/internal/database"
	"pulseboard/internal/models"
	"pulseboard/internal/poll"
	"pulseboard/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
)

func main() {
	voters := flag.Int("voters", 50, "number of fake voters")
	comments := flag.Int("comments", 30, "number of fake comments")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env == "production" || cfg.Env == "prod" {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	questions := poll.Default()
	voteRepo := repository.NewVoteRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	ips := make([]string, 0, *voters)
	for i := 0; i < *voters; i++ {
		ip := gofakeit.IPv4Address()
		ips = append(ips, ip)

		rows := make([]*models.Vote, 0, len(questions.Questions()))
		for _, q := range questions.Questions() {
			rows = append(rows, &models.Vote{
				Question:  q.ID,
				Option:    q.Options[rand.Intn(len(q.Options))],
				IP:        ip,
				Country:   gofakeit.Country(),
				City:      gofakeit.City(),
				Region:    gofakeit.State(),
				UserAgent: gofakeit.UserAgent(),
			})
		}
		if err := voteRepo.ReplaceForIP(ctx, ip, rows); err != nil {
			log.Fatalf("Failed to seed votes for %s: %v", ip, err)
		}
	}
	log.Printf("Seeded votes for %d IPs", len(ips))

	for i := 0; i < *comments; i++ {
		ip := ips[rand.Intn(len(ips))]
		snapshot := models.VoteSnapshot{}
		for _, q := range questions.Questions() {
			snapshot[q.ID] = q.Options[rand.Intn(len(q.Options))]
		}
		comment := &models.Comment{
			Content:  gofakeit.Sentence(gofakeit.Number(3, 20)),
			Nickname: gofakeit.Username(),
			IP:       ip,
			Country:  gofakeit.Country(),
			City:     gofakeit.City(),
			Votes:    snapshot,
		}
		if err := commentRepo.Create(ctx, comment); err != nil {
			log.Fatalf("Failed to seed comment: %v", err)
		}
	}
	log.Printf("Seeded %d comments", *comments)
}
