package main

import (
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awspricing "github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cloudforge/stack-advisor/pkg/server"
	"github.com/cloudforge/stack-advisor/pkg/services/catalog"
	"github.com/cloudforge/stack-advisor/pkg/services/config"
	"github.com/cloudforge/stack-advisor/pkg/services/pipeline"
	"github.com/cloudforge/stack-advisor/pkg/services/pricing"
	"github.com/cloudforge/stack-advisor/pkg/services/reasoner"
	"github.com/cloudforge/stack-advisor/pkg/services/tracker"
	"github.com/cloudforge/stack-advisor/pkg/store/dynamo"
	"github.com/cloudforge/stack-advisor/pkg/store/failover"
	"github.com/cloudforge/stack-advisor/pkg/store/memory"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the Stack Advisor web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the config file (defaults apply when omitted)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	cat := catalog.NewCatalog()

	brain := reasoner.NewBedrockReasoner(
		bedrockruntime.NewFromConfig(awsCfg),
		reasoner.BedrockOptions{ModelID: cfg.ModelID},
	)

	// The pricing API is only served out of us-east-1 and ap-south-1;
	// queries still cover every region via location filters.
	oracle := pricing.NewAWSOracle(
		awspricing.NewFromConfig(awsCfg, func(o *awspricing.Options) {
			o.Region = "us-east-1"
		}),
		cat,
	)
	cache := pricing.NewCache(oracle)

	requestStore := failover.NewStore(
		dynamo.NewStore(dynamodb.NewFromConfig(awsCfg), cfg.DynamoTable),
		memory.NewStore(),
	)

	runner := pipeline.New(
		pipeline.NewSelector(brain, cat),
		pipeline.NewPricer(cache, cat),
		pipeline.NewOptimizer(brain, cat),
		pipeline.NewReconciler(brain, cat),
		pipeline.NewSqueezer(brain, cat),
		cat,
	)

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr:            cfg.Addr,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Tracker: tracker.NewTracker(requestStore, runner, logger),
		},
	})

	return webAPI.Start()
}
