package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tartampluch/hellodays/internal/config"
	"github.com/tartampluch/hellodays/internal/engine"
	"github.com/tartampluch/hellodays/internal/fetch"
	"github.com/tartampluch/hellodays/internal/model"
	"github.com/tartampluch/hellodays/internal/nameday"
	"github.com/tartampluch/hellodays/internal/notify"
	"github.com/tartampluch/hellodays/internal/reminder"
	"github.com/tartampluch/hellodays/internal/server"
	"github.com/tartampluch/hellodays/internal/store"
	"github.com/zalando/go-keyring"
)

// errUsage marks errors caused by bad command-line input.
var errUsage = errors.New(config.ErrInvalidArgument)

func usageErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// app holds the wired dependencies shared by every command.
type app struct {
	cfg     *config.File
	sched   *notify.StoreScheduler
	svc     *reminder.Service
	fetcher fetch.Fetcher
	clock   engine.Clock

	stdin io.Reader
	out   io.Writer
}

func newApp(cfg *config.File) *app {
	kv := store.NewFileStore(cfg.DataPath)
	sched := notify.NewStoreScheduler(kv)
	msgs := notify.NewMessages(cfg.Language)
	fetcher := fetch.NewHTTPFetcher()

	return &app{
		cfg:     cfg,
		sched:   sched,
		fetcher: fetcher,
		clock:   engine.RealClock{},
		svc: &reminder.Service{
			Contacts:       store.NewContactRepository(kv),
			Settings:       store.NewSettingsService(kv),
			Planner:        notify.NewPlanner(sched, msgs),
			Catalog:        nameday.NewCatalog(nameday.NewSource(cfg.Catalog, fetcher)),
			Messages:       msgs,
			Clock:          engine.RealClock{},
			Tradition:      cfg.Tradition,
			IncludeGeneral: cfg.IncludeGeneralNameDays,
		},
		stdin: os.Stdin,
		out:   os.Stdout,
	}
}

// setClock points every time-dependent component at c.
func (a *app) setClock(c engine.Clock) {
	a.clock = c
	a.svc.Clock = c
	a.svc.Planner.Clock = c
	a.svc.Catalog.Now = c.Now
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case config.CmdUpcoming:
		return a.upcoming(ctx)
	case config.CmdMonth:
		return a.month(ctx, rest)
	case config.CmdToday:
		return a.today(ctx)
	case config.CmdAdd:
		return a.add(ctx, rest)
	case config.CmdDelete:
		return a.delete(ctx, rest)
	case config.CmdSuggest:
		return a.suggest(rest)
	case config.CmdImport:
		return a.importContacts(ctx, rest)
	case config.CmdExport:
		return a.export(ctx, rest)
	case config.CmdSettings:
		return a.settings(ctx, rest)
	case config.CmdSetPassword:
		return a.setPassword(rest)
	case config.CmdServe:
		return a.serve(ctx)
	default:
		return usageErr("%s %q", config.ErrUnknownCommand, cmd)
	}
}

func (a *app) upcoming(ctx context.Context) error {
	groups, err := a.svc.Upcoming(ctx)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Fprintln(a.out, config.OutNoContacts)
		return nil
	}
	for _, g := range groups {
		fmt.Fprintf(a.out, config.OutGroupHeader, g.Name)
		for _, r := range g.Reminders {
			when := config.OutNoOccurrence
			if r.NextOccurrence != nil {
				when = r.NextOccurrence.Format(config.DateFormatFullDash)
			}
			fmt.Fprintf(a.out, config.OutReminderLine, r.Contact.DisplayName(), when)
		}
	}
	return nil
}

func (a *app) month(ctx context.Context, args []string) error {
	now := a.clock.Now()
	year, month := now.Year(), now.Month()
	if len(args) > 0 {
		t, err := time.Parse(config.DateFormatMonthArg, args[0])
		if err != nil {
			return usageErr("%s %q", config.CmdMonth, args[0])
		}
		year, month = t.Year(), t.Month()
	}

	grid, err := a.svc.Month(ctx, year, month)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, config.OutMonthHeader, grid.Month, grid.Year)
	header := make([]string, 0, 7)
	for i := range 7 {
		header = append(header, time.Weekday((int(config.DefaultWeekStart)+i)%7).String()[:2]+config.OutGridSep)
	}
	fmt.Fprintln(a.out, strings.TrimRight(strings.Join(header, config.OutGridSep), " "))

	var listed []*engine.DayCell
	for _, week := range grid.Weeks {
		cells := make([]string, 0, len(week))
		for _, c := range week {
			if c == nil {
				cells = append(cells, config.OutGridEmpty+config.MarkNone)
				continue
			}
			cells = append(cells, fmt.Sprintf(config.OutGridCell, c.Day, dayMark(c)))
			if len(c.Events) > 0 {
				listed = append(listed, c)
			}
		}
		fmt.Fprintln(a.out, strings.TrimRight(strings.Join(cells, config.OutGridSep), " "))
	}

	for _, c := range listed {
		titles := make([]string, 0, len(c.Events))
		for _, e := range c.Events {
			titles = append(titles, e.Title)
		}
		fmt.Fprintf(a.out, config.OutEventLine, c.Day, strings.Join(titles, ", "))
	}
	return nil
}

func dayMark(c *engine.DayCell) string {
	switch {
	case c.EventType == engine.DayBoth:
		return config.MarkBoth
	case c.EventType == engine.DayBirthday:
		return config.MarkBirthday
	case c.EventType == engine.DayNameDay:
		return config.MarkNameDay
	case c.IsToday:
		return config.MarkToday
	default:
		return config.MarkNone
	}
}

func (a *app) today(ctx context.Context) error {
	d, err := a.svc.Dashboard(ctx)
	if err != nil {
		return err
	}
	section := func(title string, events []engine.DigestEvent) {
		fmt.Fprintf(a.out, config.OutDigestSection, title)
		if len(events) == 0 {
			fmt.Fprintln(a.out, config.OutNothing)
		}
		for _, e := range events {
			fmt.Fprintf(a.out, config.OutDigestLine, e.Date.Format(config.DateFormatFullDash), e.Name, e.Type)
		}
	}
	section(config.OutDigestToday, d.Today)
	section(config.OutDigestUpcoming, d.Upcoming)

	fmt.Fprintf(a.out, config.OutDigestSection, config.OutDigestNames)
	if len(d.NameDaysToday) == 0 {
		fmt.Fprintln(a.out, config.OutNothing)
	}
	for _, n := range d.NameDaysToday {
		fmt.Fprintf(a.out, config.OutNamesLine, n)
	}
	return nil
}

// dateList collects a repeatable date flag.
type dateList []model.CalendarDate

func (l *dateList) String() string {
	parts := make([]string, 0, len(*l))
	for _, d := range *l {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, ",")
}

func (l *dateList) Set(v string) error {
	d, err := model.ParseCalendarDate(v)
	if err != nil {
		return err
	}
	*l = append(*l, d)
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet(config.CmdAdd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	id := fs.Int(config.FlagID, 0, config.FlagDescID)
	first := fs.String(config.FlagFirst, "", config.FlagDescFirst)
	last := fs.String(config.FlagLast, "", config.FlagDescLast)
	birthday := fs.String(config.FlagBirthday, "", config.FlagDescBirthday)
	phone := fs.String(config.FlagPhone, "", config.FlagDescPhone)
	noRemind := fs.Bool(config.FlagNoRemind, false, config.FlagDescNoRemind)
	autoNames := fs.Bool(config.FlagAutoName, false, config.FlagDescAutoName)
	var nameDays dateList
	fs.Var(&nameDays, config.FlagNameDay, config.FlagDescNameDay)
	if err := fs.Parse(args); err != nil {
		return usageErr("%s: %v", config.CmdAdd, err)
	}
	if strings.TrimSpace(*first) == "" {
		return usageErr("%s -%s", config.ErrMissingArgument, config.FlagFirst)
	}

	c := model.Contact{
		ID:              *id,
		FirstName:       strings.TrimSpace(*first),
		LastName:        strings.TrimSpace(*last),
		PhoneNumber:     *phone,
		NameDays:        []model.NameDayEntry{},
		ReminderEnabled: !*noRemind,
	}
	if *birthday != "" {
		d, err := model.ParseCalendarDate(*birthday)
		if err != nil {
			return usageErr("-%s: %v", config.FlagBirthday, err)
		}
		c.Birthday = &d
	}
	for _, d := range nameDays {
		c.AddNameDay(d, "")
	}
	added := 0
	if *autoNames {
		added = a.svc.ApplyNameSuggestion(&c, c.FirstName)
	}

	saved, err := a.svc.Save(ctx, c)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, config.OutSaved, saved.ID, saved.DisplayName(), added)
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageErr("%s <id>", config.ErrMissingArgument)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return usageErr("%s %q", config.CmdDelete, args[0])
	}
	if err := a.svc.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, config.OutDeleted, id)
	return nil
}

func (a *app) suggest(args []string) error {
	if len(args) == 0 {
		return usageErr("%s <partial>", config.ErrMissingArgument)
	}
	for _, name := range a.svc.SuggestNames(strings.Join(args, " ")) {
		fmt.Fprintln(a.out, name)
	}
	return nil
}

func (a *app) importContacts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet(config.CmdImport, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	jsonPath := fs.String(config.FlagJSON, "", config.FlagDescJSON)
	vcfPath := fs.String(config.FlagVCF, "", config.FlagDescVCF)
	remote := fs.Bool(config.FlagURL, false, config.FlagDescURL)
	if err := fs.Parse(args); err != nil {
		return usageErr("%s: %v", config.CmdImport, err)
	}

	// A bare file argument is routed by its extension.
	if *jsonPath == "" && *vcfPath == "" && !*remote && fs.NArg() == 1 {
		switch strings.ToLower(filepath.Ext(fs.Arg(0))) {
		case config.ExtVCF:
			*vcfPath = fs.Arg(0)
		case config.ExtJSON:
			*jsonPath = fs.Arg(0)
		}
	}

	sources := 0
	for _, set := range []bool{*jsonPath != "", *vcfPath != "", *remote} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return usageErr(config.ErrImportSource)
	}

	var (
		n   int
		err error
	)
	switch {
	case *jsonPath != "":
		n, err = a.withInput(*jsonPath, func(r io.Reader) (int, error) {
			return a.svc.Contacts.ImportJSON(ctx, r)
		})
	case *vcfPath != "":
		n, err = a.withInput(*vcfPath, func(r io.Reader) (int, error) {
			added, err := a.svc.Contacts.ImportVCard(ctx, r)
			return len(added), err
		})
	default:
		n, err = a.importRemote(ctx, fs.Arg(0))
	}
	if err != nil {
		return err
	}

	// Imported contacts bypass Save, so arm their reminders here.
	if _, err := a.svc.RescheduleAll(ctx); err != nil {
		slog.Warn(config.ErrSchedule,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
	}
	fmt.Fprintf(a.out, config.OutImported, n)
	return nil
}

func (a *app) importRemote(ctx context.Context, url string) (int, error) {
	if url == "" {
		url = a.cfg.CardDAVURL
	}
	if url == "" {
		return 0, usageErr(config.ErrNoCardDAVURL)
	}

	req := fetch.Request{URL: url, User: a.cfg.CardDAVUser, Accept: config.MimeVCard}
	if a.cfg.CardDAVUser != "" {
		pass, err := keyring.Get(config.KeyringService, a.cfg.CardDAVUser)
		if err != nil {
			slog.Warn(config.MsgPassFail,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyUser, a.cfg.CardDAVUser,
				config.LogKeyError, err,
			)
		}
		req.Pass = pass
	}

	rc, err := a.fetcher.Fetch(ctx, req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = rc.Close() }()

	added, err := a.svc.Contacts.ImportVCard(ctx, rc)
	return len(added), err
}

// withInput opens path ("-" for stdin) and hands it to fn.
func (a *app) withInput(path string, fn func(io.Reader) (int, error)) (int, error) {
	if path == config.StdinPath {
		return fn(a.stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()
	return fn(f)
}

func (a *app) export(ctx context.Context, args []string) error {
	path := store.BackupFileName(a.clock.Now())
	if len(args) > 0 {
		path = args[0]
	}

	if path == config.StdinPath {
		_, err := a.svc.Contacts.ExportJSON(ctx, a.out)
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, config.FilePermUserRW)
	if err != nil {
		return err
	}
	n, err := a.svc.Contacts.ExportJSON(ctx, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, config.OutExported, n, path)
	return nil
}

func (a *app) settings(ctx context.Context, args []string) error {
	current := a.svc.Settings.Current(ctx)
	if len(args) == 0 {
		fmt.Fprintf(a.out, config.OutReminderTime, current.DefaultReminderTime)
		return nil
	}

	current.DefaultReminderTime = args[0]
	if err := a.svc.Settings.Save(ctx, current); err != nil {
		if errors.Is(err, store.ErrInvalidReminderTime) {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		return err
	}
	if _, err := a.svc.RescheduleAll(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, config.OutReminderTime, current.DefaultReminderTime)
	return nil
}

// setPassword stores the CardDAV password, read from the first argument or
// the first line of stdin.
func (a *app) setPassword(args []string) error {
	user := a.cfg.CardDAVUser
	if user == "" {
		return usageErr(config.ErrNoCardDAVUser)
	}

	var pass string
	if len(args) > 0 {
		pass = args[0]
	} else {
		line, err := bufio.NewReader(a.stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: %w", config.ErrReadPassword, err)
		}
		pass = strings.TrimRight(line, "\r\n")
	}

	if err := keyring.Set(config.KeyringService, user, pass); err != nil {
		return fmt.Errorf("%s: %w", config.ErrKeyring, err)
	}
	slog.Info(config.MsgPasswordSaved,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyUser, user,
	)
	fmt.Fprintf(a.out, config.OutPasswordSaved, user)
	return nil
}

// serve runs the HTTP server and the background worker until ctx is done or
// either of them fails.
func (a *app) serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := server.NewCalendarServer(a.cfg.Listen, a.svc)
	worker := reminder.NewWorker(a.svc, a.sched, srv)
	worker.Clock = a.clock
	worker.RescheduleSpec = a.cfg.RescheduleCron
	worker.DispatchSpec = a.cfg.DispatchCron

	errs := make(chan error, 2)
	go func() { errs <- srv.Start(ctx) }()
	go func() { errs <- worker.Run(ctx) }()

	err := <-errs
	cancel()
	if err2 := <-errs; err == nil {
		err = err2
	}
	return err
}
