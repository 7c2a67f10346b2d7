package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"

	"github.com/yigit/gradplanner/internal/app/catalog"
	"github.com/yigit/gradplanner/internal/app/models"
	"github.com/yigit/gradplanner/internal/app/progress"
	"github.com/yigit/gradplanner/internal/app/repositories"
	"github.com/yigit/gradplanner/internal/app/services"
	"github.com/yigit/gradplanner/internal/pkg/notify"
)

// localUser owns the records loaded from a file
const localUser = "local"

var errHelp = errors.New("help provided")

type commandLine struct {
	catalog   *catalog.Store
	curricula services.CatalogService
	out       io.Writer
	logger    zerolog.Logger
}

func newCommandLine(catalogStore *catalog.Store, defaultCurriculum string, out io.Writer, logger zerolog.Logger) (*commandLine, error) {
	curricula, err := services.NewCatalogService(catalogStore, defaultCurriculum)
	if err != nil {
		return nil, err
	}
	return &commandLine{
		catalog:   catalogStore,
		curricula: curricula,
		out:       out,
		logger:    logger,
	}, nil
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  curricula                                         - list the curricula of the catalog")
	fmt.Fprintln(cli.out, "  report -file FILE [-curriculum ID]                - progress report for a transcript or backup file")
	fmt.Fprintln(cli.out, "  timeline -file FILE [-status S] [-category C]     - records grouped by year and term")
	fmt.Fprintln(cli.out, "  normalize -file FILE [-out FILE] [-xlsx FILE]     - convert a transcript into a backup file")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	reportCmd := flag.NewFlagSet("report", flag.ContinueOnError)
	reportCmd.SetOutput(cli.out)
	reportFile := reportCmd.String("file", "", "Transcript or backup JSON file")
	reportCurriculum := reportCmd.String("curriculum", "", "Curriculum id (defaults to the catalog default)")

	timelineCmd := flag.NewFlagSet("timeline", flag.ContinueOnError)
	timelineCmd.SetOutput(cli.out)
	timelineFile := timelineCmd.String("file", "", "Transcript or backup JSON file")
	timelineStatus := timelineCmd.String("status", "", "Only records with this status (completed, planned)")
	timelineCategory := timelineCmd.String("category", "", "Only records in this category (required, limited, free)")

	normalizeCmd := flag.NewFlagSet("normalize", flag.ContinueOnError)
	normalizeCmd.SetOutput(cli.out)
	normalizeFile := normalizeCmd.String("file", "", "Transcript or backup JSON file")
	normalizeOut := normalizeCmd.String("out", "", "Backup file to write (defaults to standard output)")
	normalizeXLSX := normalizeCmd.String("xlsx", "", "Also write the records as an xlsx workbook")

	switch args[1] {
	case "curricula":
		return cli.listCurricula()
	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *reportFile == "" {
			reportCmd.Usage()
			return errHelp
		}
		return cli.report(*reportFile, *reportCurriculum)
	case "timeline":
		if err := timelineCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *timelineFile == "" {
			timelineCmd.Usage()
			return errHelp
		}
		filter := progress.RecordFilter{
			Status:   models.Status(*timelineStatus),
			Category: models.Category(*timelineCategory),
		}
		if filter.Status != "" && !filter.Status.IsValid() {
			return fmt.Errorf("unknown status %q", filter.Status)
		}
		if filter.Category != "" && !filter.Category.IsValid() {
			return fmt.Errorf("unknown category %q", filter.Category)
		}
		return cli.timeline(*timelineFile, filter)
	case "normalize":
		if err := normalizeCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *normalizeFile == "" {
			normalizeCmd.Usage()
			return errHelp
		}
		return cli.normalize(*normalizeFile, *normalizeOut, *normalizeXLSX)
	default:
		cli.printUsage()
		return errHelp
	}
}

// session is the service stack over an in-memory repository holding one file
type session struct {
	transfer services.TransferService
	progress services.ProgressService
}

func (cli *commandLine) load(ctx context.Context, path string) (*session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	repo := repositories.NewMemoryCourseRecordRepository()
	bus := notify.NewMemoryBus()
	s := &session{
		transfer: services.NewTransferService(repo, cli.catalog, bus, cli.logger),
		progress: services.NewProgressService(repo, cli.catalog, cli.curricula, cli.logger),
	}

	result, err := s.transfer.Import(ctx, localUser, data)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cli.logger.Debug().Str("file", path).Str("format", string(result.Format)).Int("records", result.Imported).Msg("File loaded")
	return s, nil
}

func (cli *commandLine) newTable(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(cli.out)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	return table
}

func (cli *commandLine) listCurricula() error {
	table := cli.newTable("ID", "Name", "Required", "Limited", "Free", "Total")
	for _, summary := range cli.curricula.ListCurricula() {
		curriculum, err := cli.curricula.GetCurriculum(summary.ID)
		if err != nil {
			return err
		}
		table.Append([]string{
			curriculum.ID,
			curriculum.Name,
			strconv.Itoa(curriculum.RequiredCredits),
			strconv.Itoa(curriculum.LimitedCredits),
			strconv.Itoa(curriculum.FreeCredits),
			strconv.Itoa(curriculum.TotalCredits()),
		})
	}
	table.Render()
	return nil
}

func (cli *commandLine) report(path, curriculumID string) error {
	ctx := context.Background()
	s, err := cli.load(ctx, path)
	if err != nil {
		return err
	}

	stats, err := s.progress.Stats(ctx, localUser, curriculumID)
	if err != nil {
		return err
	}
	curriculum, err := cli.curricula.ResolveCurriculum(stats.CurriculumID)
	if err != nil {
		return err
	}

	color.New(color.FgCyan, color.Bold).Fprintf(cli.out, "\n%s (%s)\n", curriculum.Name, curriculum.ID)

	table := cli.newTable("Category", "Completed", "Counted", "Surplus", "Planned", "Target", "Progress")
	for _, category := range models.Categories {
		table.Append([]string{
			string(category),
			strconv.Itoa(stats.CompletedByCategory.Get(category)),
			strconv.Itoa(stats.EffectiveByCategory.Get(category)),
			strconv.Itoa(stats.SurplusByCategory.Get(category)),
			strconv.Itoa(stats.PlannedByCategory.Get(category)),
			strconv.Itoa(curriculum.Target(category)),
			formatPercent(stats.PercentByCategory.Get(category)),
		})
	}
	table.SetFooter([]string{
		"total",
		strconv.Itoa(stats.RawCompletedTotal),
		strconv.Itoa(stats.EffectiveCompletedTotal),
		"",
		strconv.Itoa(stats.RawPlannedTotal),
		strconv.Itoa(stats.TargetTotal),
		formatPercent(stats.OverallPercent),
	})
	table.Render()

	average, err := s.progress.AverageGrade(ctx, localUser)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Average grade: %s\n", average)

	color.New(color.FgYellow).Fprintln(cli.out, "\nRecommendations")
	for _, rec := range stats.Recommendations {
		fmt.Fprintf(cli.out, "  - %s\n", rec.Message)
	}

	warnings, err := s.progress.Prerequisites(ctx, localUser)
	if err != nil {
		return err
	}
	if len(warnings) > 0 {
		color.New(color.FgRed).Fprintln(cli.out, "\nMissing prerequisites")
		table := cli.newTable("Code", "Name", "Missing")
		for _, w := range warnings {
			table.Append([]string{w.Code, w.Name, strings.Join(w.Missing, ", ")})
		}
		table.Render()
	}
	return nil
}

func (cli *commandLine) timeline(path string, filter progress.RecordFilter) error {
	ctx := context.Background()
	s, err := cli.load(ctx, path)
	if err != nil {
		return err
	}

	groups, err := s.progress.Timeline(ctx, localUser, filter)
	if err != nil {
		return err
	}

	for _, year := range groups {
		for _, term := range year.Terms {
			color.New(color.FgYellow).Fprintf(cli.out, "\n%d.%d (%d credits)\n", year.Year, term.Term, term.Credits)
			table := cli.newTable("Code", "Name", "Credits", "Category", "Status", "Grade")
			for _, r := range term.Records {
				grade := ""
				if r.Grade != nil {
					grade = *r.Grade
				}
				table.Append([]string{r.Code, r.Name, strconv.Itoa(r.Credits), string(r.Category), string(r.Status), grade})
			}
			table.Render()
		}
	}
	return nil
}

func (cli *commandLine) normalize(path, outPath, xlsxPath string) error {
	ctx := context.Background()
	s, err := cli.load(ctx, path)
	if err != nil {
		return err
	}

	data, err := s.transfer.Export(ctx, localUser)
	if err != nil {
		return err
	}
	if outPath == "" {
		if _, err := fmt.Fprintln(cli.out, string(data)); err != nil {
			return err
		}
	} else if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}

	if xlsxPath != "" {
		f, err := os.Create(xlsxPath)
		if err != nil {
			return err
		}
		if err := s.transfer.ExportWorkbook(ctx, localUser, f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return nil
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64) + "%"
}
