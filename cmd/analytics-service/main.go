package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/zipdash/appointment-analytics/internal/aggregate"
	"github.com/zipdash/appointment-analytics/internal/config"
	"github.com/zipdash/appointment-analytics/internal/export"
	"github.com/zipdash/appointment-analytics/internal/loader"
	"github.com/zipdash/appointment-analytics/internal/loader/csvsource"
	"github.com/zipdash/appointment-analytics/internal/loader/sqlsource"
	"github.com/zipdash/appointment-analytics/internal/logger"
	"github.com/zipdash/appointment-analytics/internal/metrics"
	"github.com/zipdash/appointment-analytics/internal/model"
	"github.com/zipdash/appointment-analytics/internal/pipeline"
	sqspkg "github.com/zipdash/appointment-analytics/internal/sqs"
)

func main() {
	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)

	logger.InitJSONLogger(conf.DebugMode)
	ctx := context.Background()

	metrics.StartMetricsServer(conf)

	var publisher *sqspkg.Publisher
	if conf.AWS.SQSQueueURL != "" {
		sqsClient, err := sqspkg.NewClient(ctx, conf.AWS.Region, conf.AWS.Endpoint)
		handleErr("creating SQS client", err)
		publisher = sqspkg.NewPublisher(sqsClient, conf.AWS.SQSQueueURL)
	}

	runOnce := func(ctx context.Context) error {
		if err := executeRun(ctx, conf, publisher); err != nil {
			metrics.RunsFailed.Inc()
			return err
		}
		return nil
	}

	handleErr("executing analytics run", runOnce(ctx))

	if !conf.WatchMode {
		return
	}

	// Watch mode: re-run on refresh requests until interrupted.
	sqsClient, err := sqspkg.NewClient(ctx, conf.AWS.Region, conf.AWS.Endpoint)
	handleErr("creating SQS client", err)
	consumer := sqspkg.NewConsumer(sqsClient, conf.AWS.SQSQueueURL, runOnce)

	consumerCtx, cancel := context.WithCancel(ctx)
	go func() {
		if err := consumer.Start(consumerCtx); err != nil && consumerCtx.Err() == nil {
			handleErr("consuming refresh requests", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutting down gracefully...")
	cancel()
}

// sourceTables holds the raw row sets of one run, whichever collaborator
// produced them.
type sourceTables struct {
	appointments    loader.RowSet
	users           loader.RowSet
	addresses       loader.RowSet
	mappedAddresses loader.RowSet
	hasMapped       bool
}

func executeRun(ctx context.Context, conf *config.Config, publisher *sqspkg.Publisher) error {
	started := time.Now()

	tables, err := loadTables(ctx, conf)
	if err != nil {
		return err
	}

	appointments, err := loader.NormalizeAppointments(tables.appointments, conf.TimeLayout)
	if err != nil {
		return err
	}
	users, err := loader.NormalizeUsers(tables.users, conf.TimeLayout)
	if err != nil {
		return err
	}
	addresses, err := loader.NormalizeAddresses(tables.addresses)
	if err != nil {
		return err
	}

	// Mapped addresses carry zip and coordinates; when present they
	// replace the plain rows so the geo tables have something to key on.
	joinAddresses := addresses
	var mappedAddresses []model.Address
	if tables.hasMapped {
		mappedAddresses, err = loader.NormalizeAddresses(tables.mappedAddresses)
		if err != nil {
			return err
		}
		joinAddresses = mappedAddresses
	}

	result := pipeline.New(appointments, users, joinAddresses, time.Now().UTC()).Run()

	if err := writeTables(conf.OutputDir, result, mappedAddresses); err != nil {
		return err
	}

	if publisher != nil {
		msg := sqspkg.RunCompletedMessage{
			RunID:        result.RunID.String(),
			Appointments: len(appointments),
			Users:        len(users),
			Addresses:    len(joinAddresses),
			DurationMS:   time.Since(started).Milliseconds(),
			OutputDir:    conf.OutputDir,
		}
		if err := publisher.PublishRunCompleted(ctx, msg); err != nil {
			return err
		}
	}

	return nil
}

func loadTables(ctx context.Context, conf *config.Config) (sourceTables, error) {
	var tables sourceTables
	var err error

	switch conf.Source {
	case config.SourcePostgres:
		db, err := sqlsource.StartDB(ctx, conf.Database)
		if err != nil {
			return tables, err
		}
		defer db.Close()

		src := sqlsource.NewTables(db)
		if tables.appointments, err = src.Appointments(ctx); err != nil {
			return tables, err
		}
		if tables.users, err = src.Users(ctx); err != nil {
			return tables, err
		}
		if tables.addresses, err = src.Addresses(ctx); err != nil {
			return tables, err
		}
		if tables.mappedAddresses, err = src.MappedAddresses(ctx); err != nil {
			return tables, err
		}
		tables.hasMapped = true

	case config.SourceCSV:
		if tables.appointments, err = csvsource.Load(conf.CSV.Appointments); err != nil {
			return tables, err
		}
		if tables.users, err = csvsource.Load(conf.CSV.Users); err != nil {
			return tables, err
		}
		if tables.addresses, err = csvsource.Load(conf.CSV.Addresses); err != nil {
			return tables, err
		}
		if conf.CSV.MappedAddresses != "" {
			if tables.mappedAddresses, err = csvsource.Load(conf.CSV.MappedAddresses); err != nil {
				return tables, err
			}
			tables.hasMapped = true
		}
	}

	return tables, nil
}

func writeTables(outputDir string, result *pipeline.Result, mappedAddresses []model.Address) error {
	rows := result.Enriched

	out := []export.Table{
		export.KPITable(aggregate.KPIs(rows, nil)),
		export.StatusTable(aggregate.ByStatus(rows, nil)),
		export.StateTable(aggregate.ByState(rows, nil)),
		export.ProviderTable(aggregate.ByProvider(rows, nil)),
		export.SequenceTable(aggregate.BySequenceIndex(rows, nil)),
		export.LifecycleTable(aggregate.ByLifecycle(result.Lifecycles, rows, nil)),
		export.VolumeTable(aggregate.VolumeByDay(rows, nil)),
		export.MonthAvgTable(aggregate.AvgDaysToAppointmentByMonth(rows, nil)),
		export.UserDetailTable(export.UserDetails(result, nil, runtime.NumCPU())),
	}
	if len(mappedAddresses) > 0 {
		out = append(out,
			export.HeatmapTable(aggregate.HeatmapByZip(rows, nil)),
			export.CentroidTable(aggregate.ZipCentroids(mappedAddresses)),
		)
	}

	for _, table := range out {
		if err := export.WriteFile(outputDir, table); err != nil {
			return err
		}
	}
	return nil
}

func handleErr(msg string, err error) {
	if err != nil {
		log.Fatalf("error while %s: %v", msg, err)
	}
}
