package main

// nolint: lll
import (
	"os"

	"github.com/2977094657/DidaAPI/apiserver/internal/export"
	exportREST "github.com/2977094657/DidaAPI/apiserver/internal/export/rest"
	"github.com/2977094657/DidaAPI/apiserver/internal/focus"
	focusREST "github.com/2977094657/DidaAPI/apiserver/internal/focus/rest"
	"github.com/2977094657/DidaAPI/apiserver/internal/habits"
	habitsREST "github.com/2977094657/DidaAPI/apiserver/internal/habits/rest"
	"github.com/2977094657/DidaAPI/apiserver/internal/mongodb"
	"github.com/2977094657/DidaAPI/apiserver/internal/projects"
	projectsREST "github.com/2977094657/DidaAPI/apiserver/internal/projects/rest"
	"github.com/2977094657/DidaAPI/apiserver/internal/restmachinery"
	"github.com/2977094657/DidaAPI/apiserver/internal/sessions"
	sessionsMongodb "github.com/2977094657/DidaAPI/apiserver/internal/sessions/mongodb"
	"github.com/2977094657/DidaAPI/apiserver/internal/statistics"
	statisticsREST "github.com/2977094657/DidaAPI/apiserver/internal/statistics/rest"
	"github.com/2977094657/DidaAPI/apiserver/internal/tasks"
	tasksREST "github.com/2977094657/DidaAPI/apiserver/internal/tasks/rest"
	"github.com/2977094657/DidaAPI/apiserver/internal/upstream"
	"github.com/2977094657/DidaAPI/apiserver/internal/users"
	usersREST "github.com/2977094657/DidaAPI/apiserver/internal/users/rest"
	"github.com/2977094657/DidaAPI/apiserver/internal/wechat"
	wechatREST "github.com/2977094657/DidaAPI/apiserver/internal/wechat/rest"
	"github.com/rs/zerolog"
)

func getAPIServerFromEnvironment() (restmachinery.Server, error) {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// API server config
	apiConfig, err := restmachinery.GetConfigFromEnvironment()
	if err != nil {
		return nil, err
	}

	// Common
	database, err := mongodb.Database()
	if err != nil {
		return nil, err
	}

	// Sessions
	sessionsStore, err := sessionsMongodb.NewStore(database)
	if err != nil {
		return nil, err
	}
	loginAttemptsStore, err := sessionsMongodb.NewLoginAttemptsStore(database)
	if err != nil {
		return nil, err
	}
	sessionsService := sessions.NewService(
		sessionsStore,
		loginAttemptsStore,
		logger,
	)

	// Upstream client-- loads the most recent active session, if any
	upstreamConfig, err := upstream.GetConfigFromEnvironment()
	if err != nil {
		return nil, err
	}
	upstreamClient := upstream.NewClient(
		upstreamConfig,
		sessionsService,
		logger,
	)

	// QR login flow-- depends on sessions and refreshes the upstream client
	wechatConfig, err := wechat.GetConfigFromEnvironment()
	if err != nil {
		return nil, err
	}
	wechatService := wechat.NewService(
		wechatConfig,
		sessionsService,
		upstreamClient,
		logger,
	)

	// Tasks and focus records
	tasksService := tasks.NewService(upstreamClient, logger)
	focusService := focus.NewService(upstreamClient, logger)

	// Authenticated pass-throughs
	habitsService := habits.NewService(upstreamClient, logger)
	projectsService := projects.NewService(upstreamClient, logger)
	usersService := users.NewService(upstreamClient, logger)
	statisticsService := statistics.NewService(upstreamClient, logger)

	// Exports-- depends on tasks and focus
	exportService := export.NewService(tasksService, focusService, logger)

	baseEndpoints := &restmachinery.BaseEndpoints{
		Logger: logger.With().Str("component", "rest").Logger(),
	}

	return restmachinery.NewServer(
		apiConfig,
		baseEndpoints,
		[]restmachinery.Endpoints{
			wechatREST.NewSessionEndpoints(
				baseEndpoints,
				wechatService,
				sessionsService,
			),
			tasksREST.NewEndpoints(baseEndpoints, tasksService),
			focusREST.NewEndpoints(baseEndpoints, focusService),
			habitsREST.NewEndpoints(baseEndpoints, habitsService),
			projectsREST.NewEndpoints(baseEndpoints, projectsService),
			usersREST.NewEndpoints(baseEndpoints, usersService),
			statisticsREST.NewEndpoints(baseEndpoints, statisticsService),
			exportREST.NewEndpoints(baseEndpoints, exportService),
		},
		sessionsService.CheckHealth,
	), nil
}
