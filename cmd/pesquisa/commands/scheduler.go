package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gfarias-dados/pesquisa-preco/internal/scheduler"
	"github.com/gfarias-dados/pesquisa-preco/internal/scheduler/jobs"
	"github.com/gfarias-dados/pesquisa-preco/internal/status"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Gerencia o agendador",
	Long: `Inicia o agendador ou consulta os jobs registrados.

Subcommands:
  start   - inicia o daemon do agendador
  list    - lista os jobs registrados
  run     - executa um job imediatamente

Example:
  go run ./cmd/pesquisa scheduler start
  go run ./cmd/pesquisa scheduler run price_survey`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Inicia o daemon do agendador",
		Long: `Inicia o agendador e mantém o processo em primeiro plano.

Jobs registrados:
- price_survey: segunda-feira às 06:00 (fuso configurado)

Um servidor de status sobe na porta STATUS_PORT com /healthz,
/runs/latest e /jobs.

Encerre com Ctrl+C.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "Lista os jobs registrados",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Executa um job imediatamente",
		Args:  cobra.ExactArgs(1),
		RunE:  runJobNow,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sched, srv, cleanup, err := initScheduler(ctx)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	sched.Start()

	go func() {
		if err := srv.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "status server: %v\n", err)
		}
	}()

	fmt.Println("Scheduler started")
	fmt.Println("Registered jobs:")
	for _, jobName := range sched.Jobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down...")
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown status server: %w", err)
	}

	fmt.Println("Scheduler stopped")
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, _, cleanup, err := initScheduler(cmd.Context())
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.Jobs() {
		fmt.Printf("  - %s\n", jobName)
	}

	return nil
}

func runJobNow(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	sched, _, cleanup, err := initScheduler(cmd.Context())
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	fmt.Printf("Running job: %s\n", jobName)
	if err := sched.RunJob(jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	// RunJob is async; poll until the job records a result.
	deadline := time.Now().Add(10 * time.Minute)
	for time.Now().Before(deadline) {
		if result, ok := sched.LatestResult(jobName); ok {
			if result.Success {
				fmt.Printf("Job finished in %s\n", result.Duration)
				return nil
			}
			return fmt.Errorf("job failed: %s", result.Error)
		}
		time.Sleep(500 * time.Millisecond)
	}

	return fmt.Errorf("job %s did not finish within 10 minutes", jobName)
}

func initScheduler(ctx context.Context) (*scheduler.Scheduler, *status.Server, func(), error) {
	p, cfg, log, cleanup, err := buildPipeline(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	job := jobs.NewPriceSurveyJob(p, cfg, log)

	sched := scheduler.New(log, loc)
	if err := sched.AddJob(job); err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("register job: %w", err)
	}

	srv := status.New(cfg.StatusPort, job, sched, log)
	return sched, srv, cleanup, nil
}
