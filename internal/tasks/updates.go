package tasks

import "fmt"

// ProgressUpdate is one step of an aggregation or export run, sent to whoever
// is rendering progress. Step counts from 1 up to Total within a Phase.
// Offset is the catalog offset of a FetchPage step and zero otherwise.
type ProgressUpdate struct {
	Phase   Phase
	Step    int
	Total   int
	Offset  int
	Message string
}

// Phase identifies the kind of work a [ProgressUpdate] reports on.
type Phase int

const (
	FetchPage Phase = iota
	CacheTracks
	ExportTicket
)

func (p Phase) String() string {
	switch p {
	case FetchPage:
		return "fetch_page"
	case CacheTracks:
		return "cache_tracks"
	case ExportTicket:
		return "export_ticket"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func fetchPageUpdate(step, total, offset, got int, query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPage,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %q offset %d: %d tracks", step, total, query, offset, got),
		Offset:  offset,
	}
}

func cacheTracksUpdate(count int, catalog string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CacheTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Caching %d tracks from %s...", count, catalog),
	}
}

func exportingTicketUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportTicket,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportTicket,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportTicket,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
