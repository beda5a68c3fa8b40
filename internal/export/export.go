package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jimezsa/jobmatch/internal/models"
	"github.com/jimezsa/jobmatch/internal/ui"
	"github.com/muesli/termenv"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

// ParseFormat accepts the names above, case-insensitively.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatTable, "":
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatMarkdown, "markdown":
		return FormatMarkdown, nil
	case FormatTSV:
		return FormatTSV, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected table, json, md or tsv)", value)
	}
}

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
	LinkStyle    LinkStyle
	// Reasons adds the match reasons under each table row.
	Reasons bool
}

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

func WriteJobs(w io.Writer, jobs []models.Job, format Format, opts WriteOptions) error {
	if jobs == nil {
		jobs = []models.Job{}
	}
	switch format {
	case FormatJSON:
		return writeJSON(w, jobs)
	case FormatTSV:
		return writeTSV(w, jobs)
	case FormatMarkdown:
		return writeMarkdown(w, jobs)
	default:
		return writeTable(w, jobs, opts)
	}
}

func writeJSON(w io.Writer, jobs []models.Job) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jobs)
}

func writeTSV(w io.Writer, jobs []models.Job) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'
	if err := writer.Write(tsvHeader()); err != nil {
		return err
	}
	for _, job := range jobs {
		if err := writer.Write(tsvRow(job)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, jobs []models.Job, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeader(), "\t"))
	output := termenv.NewOutput(w)
	for _, job := range jobs {
		fmt.Fprintln(tw, strings.Join(tableRow(job, output, opts), "\t"))
		if opts.Reasons {
			for _, reason := range job.MatchReasons {
				fmt.Fprintf(tw, "\t  %s\t\t\t\t\n", reason)
			}
		}
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, jobs []models.Job) error {
	if len(jobs) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	for _, job := range jobs {
		urlLine := "  URL: -"
		if url := safe(job.URL); url != "" {
			urlLine = fmt.Sprintf("  URL: [Open listing](<%s>)", url)
		}
		lines := []string{
			fmt.Sprintf("- **%s** (%s), score %d", safe(job.Title), safe(job.Company), job.MatchScore),
			fmt.Sprintf("  Location: %s", safe(job.Location)),
			fmt.Sprintf("  Source: %s", safe(job.Source)),
			urlLine,
		}
		if job.JobType != "" {
			lines = append(lines, fmt.Sprintf("  Type: %s", safe(job.JobType)))
		}
		if job.Salary != "" {
			lines = append(lines, fmt.Sprintf("  Salary: %s", safe(job.Salary)))
		}
		if job.PostedDate != "" {
			lines = append(lines, fmt.Sprintf("  Posted: %s", safe(job.PostedDate)))
		}
		if manager := managerLabel(job.HiringManager); manager != "" {
			lines = append(lines, fmt.Sprintf("  Hiring manager: %s", manager))
		}
		for _, reason := range job.MatchReasons {
			lines = append(lines, fmt.Sprintf("  - %s", safe(reason)))
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func tsvHeader() []string {
	return []string{
		"score",
		"source",
		"id",
		"title",
		"company",
		"location",
		"job_type",
		"salary",
		"posted_date",
		"url",
		"hiring_manager",
		"reasons",
	}
}

func tsvRow(job models.Job) []string {
	return []string{
		strconv.Itoa(job.MatchScore),
		job.Source,
		job.ID,
		job.Title,
		job.Company,
		job.Location,
		job.JobType,
		job.Salary,
		job.PostedDate,
		job.URL,
		managerLabel(job.HiringManager),
		strings.Join(job.MatchReasons, "; "),
	}
}

func managerLabel(manager *models.HiringManager) string {
	if manager == nil {
		return ""
	}
	parts := []string{safe(manager.Name)}
	if title := safe(manager.Title); title != "" {
		parts[0] = fmt.Sprintf("%s (%s)", parts[0], title)
	}
	if email := safe(manager.Email); email != "" {
		parts = append(parts, email)
	}
	if phone := safe(manager.Phone); phone != "" {
		parts = append(parts, phone)
	}
	return strings.TrimSpace(strings.Join(parts, ", "))
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func tableHeader() []string {
	return []string{
		"score",
		"title",
		"company",
		"source",
		"url",
	}
}

func tableRow(job models.Job, output *termenv.Output, opts WriteOptions) []string {
	url := safe(job.URL)
	displayURL := "-"
	if url != "" {
		displayURL = url
		if opts.LinkStyle == LinkStyleShort && opts.Hyperlinks {
			displayURL = shortURLLabel(url)
		}
		displayURL = ui.ColorizeLink(output, opts.ColorEnabled, displayURL)
		if opts.Hyperlinks {
			displayURL = hyperlink(url, displayURL)
		}
	}
	return []string{
		ui.ColorizeScore(output, opts.ColorEnabled, job.MatchScore),
		safe(job.Title),
		safe(job.Company),
		safe(job.Source),
		displayURL,
	}
}

func hyperlink(url string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + url + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	const maxLen = 60
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "" {
			label = host + parsed.Path
		}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = raw
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	return label
}
