package console

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/molchan/harvester/internal/config"
	"github.com/molchan/harvester/internal/entity"
	"github.com/molchan/harvester/internal/gateway"
	"github.com/molchan/harvester/internal/llm"
	"github.com/molchan/harvester/internal/parser"
	"github.com/molchan/harvester/internal/queue"
	"github.com/molchan/harvester/internal/storage"
	"github.com/molchan/harvester/internal/telemetry"
)

type ScrapeRunCommand struct {
}

// Fetcher is what a worker needs from the gateway client.
type Fetcher interface {
	Fetch(ctx context.Context, req gateway.Request) (*gateway.Page, error)
}

type Job struct {
	job entity.ScrapeJob
}

type Result struct {
	job  entity.ScrapeJob
	page *gateway.Page
	err  error
}

func NewScrapeRunCommand() *ScrapeRunCommand {
	cmd := ScrapeRunCommand{}
	return &cmd
}

func (cmd *ScrapeRunCommand) Name() string {
	return "scrape:run"
}

func (cmd *ScrapeRunCommand) Description() string {
	return "fetches pending jobs through the scraping gateway, parses the pages and stores the results"
}

func (cmd *ScrapeRunCommand) Run() error {
	slog.Info("starting scrape run")
	conf := config.GetConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tel, err := telemetry.Setup(ctx, "harvester", conf.OtlpMetricsURL, conf.OtlpTracesURL)
	if err != nil {
		slog.Warn("telemetry setup failed, continuing without it", "err", err)
	} else {
		defer func() {
			if err := tel.Shutdown(context.Background()); err != nil {
				slog.Warn("telemetry shutdown failed", "err", err)
			}
		}()
	}

	manager := storage.NewManager(conf.DbConnectionString)
	if err = manager.Connect(); err != nil {
		return err
	}

	// The DB order seeds the in-memory priority queue, so restarted runs
	// walk the same order.
	var pending []entity.ScrapeJob
	if result := manager.DB().
		Where("status = ?", entity.JobStatusPending).
		Order("priority DESC, created_at ASC").
		Find(&pending); result.Error != nil {
		return result.Error
	}
	if len(pending) == 0 {
		slog.Info("no pending jobs, nothing to scrape")
		return nil
	}
	slog.Debug("pending jobs loaded", "jobs_count", len(pending))

	pq := queue.NewPriorityQueue(pending...)
	client := gateway.NewClient(gateway.Config{
		ApiKey:           conf.ApiKey,
		BaseURL:          conf.BaseURL,
		ConcurrencyLimit: conf.ConcurrencyLimit,
		RetryCount:       conf.RetryCount,
	})

	collected := cmd.dispatcher(ctx, cancel, client, conf, pq)
	slog.Debug("fetching finished", "results_count", len(collected))

	engines := []parser.Engine{parser.NewHtmlEngine(), parser.NewRegexEngine()}
	if len(conf.OpenAIApiKey) > 0 {
		engines = append(engines, parser.NewLlmEngine(llm.NewExtractor(conf.OpenAIApiKey, conf.OpenAILanguageModel)))
	}
	prsr := parser.NewParser(engines...)

	return cmd.store(conf, manager, prsr, collected)
}

// store classifies every result, parses the successful pages and persists
// job state plus page results.
func (cmd *ScrapeRunCommand) store(conf *config.Config, manager *storage.Manager, prsr *parser.Parser, collected []Result) error {
	var pages []gateway.Page
	jobByURL := make(map[string]*entity.ScrapeJob, len(collected))

	fetched, failed, skipped, aborted := 0, 0, 0, 0
	for k := range collected {
		res := &collected[k]
		jobByURL[res.job.URL] = &res.job
		switch {
		case res.err == nil:
			res.job.MarkDone(res.page.Attempts)
			pages = append(pages, *res.page)
			fetched++
		case gateway.IsAuth(res.err), errors.Is(res.err, context.Canceled):
			// left pending, the run was aborted
			aborted++
		case gateway.IsPermanent(res.err):
			slog.Warn("target is gone, skipping job", "url", res.job.URL, "err", res.err)
			res.job.MarkSkipped(res.err)
			skipped++
		default:
			slog.Error("fetch failed", "url", res.job.URL, "err", res.err)
			res.job.MarkFailed(conf.RetryCount+1, res.err)
			failed++
		}
	}

	slog.Debug("parsing pages", "pages_count", len(pages))
	results := prsr.Parse(pages)
	slog.Debug("pages parsed", "results_count", len(results))

	if conf.DryRun {
		slog.Info("DRY RUN MODE: skipping database saves",
			"fetched", fetched, "failed", failed, "skipped", skipped, "aborted", aborted,
			"parsed", len(results))
		return nil
	}

	for k := range collected {
		res := &collected[k]
		if gateway.IsAuth(res.err) || errors.Is(res.err, context.Canceled) {
			continue
		}
		if err := manager.DB().Save(&res.job).Error; err != nil {
			return err
		}
	}
	for k := range results {
		if job, ok := jobByURL[results[k].URL]; ok {
			results[k].JobID = job.ID
		}
		if err := manager.DB().Create(&results[k]).Error; err != nil {
			return err
		}
	}

	slog.Info("scrape run finished",
		"fetched", fetched, "failed", failed, "skipped", skipped, "aborted", aborted,
		"parsed", len(results))

	return nil
}

// dispatcher fans the queue out to the worker pool and gathers the results.
func (cmd *ScrapeRunCommand) dispatcher(ctx context.Context, cancel context.CancelFunc, client Fetcher, conf *config.Config, pq *queue.PriorityQueue) []Result {
	jobs := make(chan Job, pq.Len())
	results := make(chan Result, pq.Len())

	var wg sync.WaitGroup
	wg.Add(conf.Workers)
	for w := 1; w <= conf.Workers; w++ {
		go cmd.worker(ctx, w, client, conf, jobs, results, &wg)
	}

	var collected []Result
	var resultsWg sync.WaitGroup
	resultsWg.Add(1)
	go cmd.collector(cancel, results, &resultsWg, &collected)

	// Distribute jobs in priority order and wait for completion
	for {
		job, ok := pq.Pop()
		if !ok {
			break
		}
		jobs <- Job{job: job}
	}
	close(jobs)
	wg.Wait()
	close(results)

	// Ensure all results are collected
	resultsWg.Wait()
	return collected
}

func (cmd *ScrapeRunCommand) worker(ctx context.Context, id int, client Fetcher, conf *config.Config, jobs <-chan Job, results chan<- Result, wg *sync.WaitGroup) {
	slog.Debug("scraping worker started", "id", id)
	defer wg.Done()
	for job := range jobs {
		if ctx.Err() != nil {
			// run aborted, drain the queue and leave the jobs pending
			continue
		}
		politeDelay(conf.Delay, conf.RandomDelay)
		slog.Debug("worker started processing url", "worker_id", id, "url", job.job.URL)
		page, err := client.Fetch(ctx, gateway.Request{
			URL:         job.job.URL,
			RenderJS:    conf.RenderJS,
			CountryCode: conf.CountryCode,
		})
		results <- Result{job: job.job, page: page, err: err}
		slog.Debug("worker finished processing url", "worker_id", id, "url", job.job.URL)
	}
	slog.Debug("scraping worker finished", "id", id)
}

func (cmd *ScrapeRunCommand) collector(cancel context.CancelFunc, results <-chan Result, wg *sync.WaitGroup, collected *[]Result) {
	slog.Debug("collecting results started")
	defer wg.Done()
	for result := range results {
		if result.err != nil && gateway.IsAuth(result.err) {
			slog.Error("gateway rejected credentials, aborting the run", "url", result.job.URL)
			cancel()
		}
		if result.err == nil {
			slog.Debug("collected page", "url", result.job.URL, "page_size", len(result.page.Html), "attempts", result.page.Attempts)
		}
		*collected = append(*collected, result)
	}
	slog.Debug("collecting results finished")
}

// politeDelay sleeps for the configured delay plus a random jitter before a
// request, so bursts do not hammer a single origin.
func politeDelay(delay, randomDelay time.Duration) {
	if randomDelay > 0 {
		delay += rand.N(randomDelay)
	}
	if delay > 0 {
		time.Sleep(delay)
	}
}
