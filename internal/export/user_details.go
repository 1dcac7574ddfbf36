// Package export produces the downloadable artifacts of a run: the
// per-user detail table and CSV renderings of every summary table.
package export

import (
	"sort"
	"sync"

	"github.com/zipdash/appointment-analytics/internal/aggregate"
	"github.com/zipdash/appointment-analytics/internal/model"
	"github.com/zipdash/appointment-analytics/internal/pipeline"
)

// dateFormat is the timestamp layout of the exported appointment dates.
const dateFormat = "2006-01-02 15:04"

// UserDetail is the per-user record of the detailed export: every
// appointment of the user collapsed into one row.
type UserDetail struct {
	UserID            string
	Providers         []string
	DistinctProviders int
	Appointments      int
	Dates             []string
	Statuses          []model.StatusCode
	CountPaid         int
	CountCancelled    int
	CountRescheduled  int
	DistinctStatuses  int
	Lifecycle         model.LifecycleStatus
	State             string
	Revenue           float64
}

// UserDetails partitions the enriched table by user and summarizes each
// partition on a bounded worker pool. The filter's row restrictions
// apply before partitioning; its lifecycle restriction drops whole
// users. Output is sorted by user id and independent of worker count.
func UserDetails(result *pipeline.Result, f *aggregate.Filter, workers int) []UserDetail {
	lifecycleByUser := make(map[string]model.LifecycleStatus, len(result.Lifecycles))
	for _, lc := range result.Lifecycles {
		lifecycleByUser[lc.UserID] = lc.Status
	}

	partitions := make(map[string][]model.EnrichedAppointment)
	for _, row := range f.Apply(result.Enriched) {
		if !f.LifecycleMatches(lifecycleByUser[row.UserID]) {
			continue
		}
		partitions[row.UserID] = append(partitions[row.UserID], row)
	}
	if len(partitions) == 0 {
		return []UserDetail{}
	}

	if workers < 1 {
		workers = 1
	}
	if workers > len(partitions) {
		workers = len(partitions)
	}

	jobs := make(chan string, len(partitions))
	results := make(chan UserDetail, len(partitions))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for userID := range jobs {
				results <- summarizeUser(userID, partitions[userID], lifecycleByUser[userID])
			}
		}()
	}

	for userID := range partitions {
		jobs <- userID
	}
	close(jobs)
	wg.Wait()
	close(results)

	out := make([]UserDetail, 0, len(partitions))
	for detail := range results {
		out = append(out, detail)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].UserID < out[b].UserID })
	return out
}

func summarizeUser(userID string, rows []model.EnrichedAppointment, lifecycle model.LifecycleStatus) UserDetail {
	// Partition rows follow the user's visit order, undated visits last.
	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].AppointmentIndex < rows[b].AppointmentIndex
	})

	detail := UserDetail{
		UserID:       userID,
		Appointments: len(rows),
		Lifecycle:    lifecycle,
	}

	seenProviders := make(map[string]struct{})
	seenStatuses := make(map[model.StatusCode]struct{})
	for _, row := range rows {
		if _, ok := seenProviders[row.ProviderID]; !ok {
			seenProviders[row.ProviderID] = struct{}{}
			detail.Providers = append(detail.Providers, row.ProviderID)
		}
		if row.Scheduled != nil {
			detail.Dates = append(detail.Dates, row.Scheduled.Format(dateFormat))
		}
		detail.Statuses = append(detail.Statuses, row.Status)
		seenStatuses[row.Status] = struct{}{}

		switch row.Status {
		case model.StatusPaid:
			detail.CountPaid++
		case model.StatusCancelled:
			detail.CountCancelled++
		case model.StatusRescheduled:
			detail.CountRescheduled++
		}

		detail.Revenue += row.TotalFinal
		if detail.State == "" {
			detail.State = row.State
		}
	}
	detail.DistinctProviders = len(seenProviders)
	detail.DistinctStatuses = len(seenStatuses)
	return detail
}
