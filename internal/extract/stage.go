package extract

// Stage is a state of the linear extraction pipeline. A failure is reported
// with the last stage reached; there are no back edges and no retries.
type Stage int

const (
	StageStart Stage = iota
	StageURLExtracted
	StagePageFetched
	StageJSONBlockFound
	StageJSONParsed
	StagePathNavigated
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageURLExtracted:
		return "url_extracted"
	case StagePageFetched:
		return "page_fetched"
	case StageJSONBlockFound:
		return "json_block_found"
	case StageJSONParsed:
		return "json_parsed"
	case StagePathNavigated:
		return "path_navigated"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}
