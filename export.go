package main

import (
	"flag"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/pkg/errors"

	"github.com/rtm0/fcnpost/internal/forecast"
	"github.com/rtm0/fcnpost/internal/vm"
)

func runExport(e *env, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	file := fs.String("file", "", "path to a processed forecast written by the process command")
	concurrency := fs.Int("concurrency", runtime.NumCPU(), "number of concurrent requests to Victoria Metrics")
	recsPerInsert := fs.Int("recsPerInsert", 500, "number of records sent to VM in one batch")
	vmInsertURL := fs.String("vmInsertUrl", "http://localhost:8428/write", "Victoria Metrics insert API URL. Default: InfluxDB line protocol v2")
	metricPrefix := fs.String("metricPrefix", "fcn", "prefix of the exported metric names")
	dryRun := fs.Bool("dryRun", false, "print encoded records to stdout instead of sending them")
	progress := fs.Bool("progress", false, "show a progress bar instead of progress log lines")
	fs.Parse(args)
	if *concurrency < 1 {
		return errors.Errorf("invalid -concurrency %d: must be at least 1", *concurrency)
	}
	if *recsPerInsert < 1 {
		return errors.Errorf("invalid -recsPerInsert %d: must be at least 1", *recsPerInsert)
	}

	f, table, err := forecast.OpenProcessed(*file)
	if err != nil {
		return err
	}
	s, err := forecast.NewScanner(f, table)
	if err != nil {
		return err
	}
	e.logger.Info("Forecast summary", s.Summary()...)

	vmCli, err := vm.NewClient(e.logger, *vmInsertURL, *concurrency, *metricPrefix, s.Channels())
	if err != nil {
		return err
	}
	insert := vmCli.Insert
	if *dryRun {
		var mu sync.Mutex
		insert = func(recs []forecast.Record) error {
			mu.Lock()
			defer mu.Unlock()
			_, err := fmt.Fprint(e.stdout, vmCli.Encode(recs))
			return err
		}
	}

	recsCh := make(chan []forecast.Record)
	progressCh := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for recs := range recsCh {
				n := len(recs)
				for i := 0; i < n; i += *recsPerInsert {
					limit := min(i+*recsPerInsert, n)
					if err := insert(recs[i:limit]); err != nil {
						e.metrics.ExportErrors.Inc()
						continue
					}
					e.metrics.RecordsExported.Add(float64(limit - i))
				}
				progressCh <- n
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		total := s.TotalRecCount()
		if *progress {
			reportBar(progressCh, total)
			return
		}
		reportLog(e, progressCh, total)
	}()

	for s.Scan() {
		recsCh <- s.Records()
	}
	close(recsCh)
	wg.Wait()
	close(progressCh)
	<-done
	return nil
}

func reportLog(e *env, progressCh <-chan int, total int) {
	var inserted float64
	start := e.clock.Now()
	for n := range progressCh {
		inserted += float64(n)
		percent := fmt.Sprintf("%.2f%%", 100*inserted/float64(total))
		duration := e.clock.Since(start).Round(1 * time.Second)
		e.logger.Info("progress", "inserted", percent, "in", duration)
	}
}

func reportBar(progressCh <-chan int, total int) {
	uiprogress.Start()
	defer uiprogress.Stop()
	bar := uiprogress.AddBar(total).AppendCompleted().PrependElapsed()
	for n := range progressCh {
		bar.Set(bar.Current() + n)
	}
}
