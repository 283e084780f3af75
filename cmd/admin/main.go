package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"series_guide/configs"
	"series_guide/db/mongodb"
	"series_guide/internal/repository"
	"series_guide/pkg/logger"
	"series_guide/pkg/password"
)

func main() {
	createAdmin := flag.Bool("create-admin", false, "create a new admin account")
	resetPassword := flag.Bool("reset-password", false, "reset the password of an admin account")
	check := flag.Bool("check", false, "report the number of admin accounts")
	username := flag.String("username", "", "username for -create-admin (generated when empty)")
	email := flag.String("email", "", "email for -create-admin")
	identifier := flag.String("identifier", "", "username or email for -reset-password")
	pass := flag.String("password", "", "password to set (generated and printed when empty)")
	flag.Parse()

	if !*createAdmin && !*resetPassword && !*check {
		flag.Usage()
		os.Exit(2)
	}

	configs.LoadEnvVariables()
	if err := logger.Init(configs.GetConfigs().LogMode); err != nil {
		log.Fatalf("logger.Init: %s", err)
	}
	defer logger.Sync()

	mongoDB, err := mongodb.NewDatabase()
	if err != nil {
		log.Fatalf("could not initialize mongodb database connection: %s", err)
	}
	defer mongoDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err = mongoDB.EnsureIndexes(ctx); err != nil {
		logger.Warn("could not create mongodb indexes", "error", err)
	}
	cancel()

	tool := &adminTool{
		userRepo: repository.NewUserRepository(mongoDB.GetDB()),
		hasher:   password.NewHasher(password.DefaultCost, configs.GetConfigs().LegacyPasswordSalt),
		out:      os.Stdout,
	}

	switch {
	case *createAdmin:
		err = tool.createAdmin(*username, *email, *pass)
	case *resetPassword:
		err = tool.resetPassword(*identifier, *pass)
	case *check:
		_, err = tool.check()
	}
	if err != nil {
		logger.Error("admin command failed", "error", err)
		logger.Sync()
		os.Exit(1)
	}
}
