package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/medkartei/medkartei/agent/assistant"
	contractx "github.com/medkartei/medkartei/agent/contract"
	"github.com/medkartei/medkartei/agent/leads"
	"github.com/medkartei/medkartei/agent/literature"
	llmx "github.com/medkartei/medkartei/agent/llm"
	"github.com/medkartei/medkartei/agent/store"
	toolx "github.com/medkartei/medkartei/agent/tool"
	configx "github.com/medkartei/medkartei/pkg/config"
	"github.com/medkartei/medkartei/pkg/googlemaps"
	_ "github.com/medkartei/medkartei/pkg/logger/autoload"
	"github.com/medkartei/medkartei/pkg/pubmed"
	serverx "github.com/medkartei/medkartei/server"
)

type AppConfig struct {
	ListenAddr string `envconfig:"LISTEN_ADDR" split_words:"true" default:":8080"`
	KarteiPath string `envconfig:"KARTEI_PATH" split_words:"true" default:"data/kartei.csv"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("")

	kartei, err := store.NewCSVStore(appCfg.KarteiPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", appCfg.KarteiPath).Msg("open kartei")
	}

	llmCfg := configx.MustNew[llmx.Config]("OPENAI")
	model, err := llmx.NewClient(*llmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("create chat model")
	}

	// Lead discovery degrades to unavailable when the maps key is absent.
	var finder contractx.LeadFinder
	mapsCfg := configx.MustNew[googlemaps.Config]("GOOGLE_MAPS")
	if mapsClient, err := googlemaps.NewClient(*mapsCfg); err != nil {
		log.Warn().Err(err).Msg("lead discovery disabled")
	} else {
		if finder, err = leads.NewFinder(mapsClient); err != nil {
			log.Fatal().Err(err).Msg("create lead finder")
		}
	}

	pubmedCfg := configx.MustNew[pubmed.Config]("NCBI")
	pubmedClient, err := pubmed.NewClient(*pubmedCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("create pubmed client")
	}
	if !pubmedClient.HasAPIKey() {
		log.Warn().Msg("NCBI_API_KEY not set, literature requests run at lower rate limits")
	}

	lookup, err := literature.NewLookup(pubmedClient)
	if err != nil {
		log.Fatal().Err(err).Msg("create literature lookup")
	}

	gateway, err := toolx.NewGateway(kartei, finder, lookup)
	if err != nil {
		log.Fatal().Err(err).Msg("create tool gateway")
	}

	agent, err := assistant.New(model, gateway)
	if err != nil {
		log.Fatal().Err(err).Msg("create assistant")
	}

	srv, err := serverx.New(agent)
	if err != nil {
		log.Fatal().Err(err).Msg("create server")
	}

	log.Info().Str("addr", appCfg.ListenAddr).Msg("medkartei assistant listening")
	if err := http.ListenAndServe(appCfg.ListenAddr, srv.Handler()); err != nil {
		log.Fatal().Err(err).Msg("http server stopped")
	}
}
