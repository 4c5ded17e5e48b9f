package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	"github.com/Garsondee/radar/internal/grid"
	"github.com/Garsondee/radar/internal/radar"
	"github.com/Garsondee/radar/internal/world"
)

type reportOptions struct {
	grid       grid.Type
	cols, rows int
	maxHeight  int
	ticks      int
	size       int
}

type runStats struct {
	runIndex int
	seed     int64

	firstContactTick int
	contacts         int
	pings            int

	unexplored int
	explored   int
	visible    int

	radar  radar.Stats
	img    *image.RGBA
	events *world.EventLog
}

func main() {
	var runs int
	var seedBase, seedStep int64
	var gridName, outDir string
	var showEvents bool
	var opts reportOptions

	flag.IntVar(&runs, "runs", 3, "number of headless runs")
	flag.IntVar(&opts.ticks, "ticks", 600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "terrain seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&gridName, "grid", "rectangular", "map grid: rectangular or staggered")
	flag.IntVar(&opts.cols, "cols", 96, "map columns")
	flag.IntVar(&opts.rows, "rows", 96, "map rows")
	flag.IntVar(&opts.maxHeight, "max-height", 0, "maximum terrain height")
	flag.IntVar(&opts.size, "size", 256, "minimap render size in pixels")
	flag.StringVar(&outDir, "png", "", "write each run's final minimap as PNG into this directory")
	flag.BoolVar(&showEvents, "events", false, "print each run's world event log")
	flag.Parse()

	gt, err := grid.ParseType(gridName)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	opts.grid = gt
	if runs <= 0 || opts.ticks <= 0 {
		fmt.Println("error: -runs and -ticks must be > 0")
		return
	}
	if opts.cols <= 0 || opts.rows <= 0 || opts.size <= 0 {
		fmt.Println("error: -cols, -rows and -size must be > 0")
		return
	}

	fmt.Printf("=== Headless Radar Report ===\n")
	fmt.Printf("grid=%s map=%dx%d runs=%d ticks=%d seed_base=%d seed_step=%d\n\n",
		gridName, opts.cols, opts.rows, runs, opts.ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rs, err := runScenario(i+1, seed, opts)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		printRun(os.Stdout, rs)
		if showEvents {
			fmt.Print(rs.events.Format())
			fmt.Println()
		}
		if outDir != "" {
			path := filepath.Join(outDir, fmt.Sprintf("radar-run%d-seed%d.png", rs.runIndex, rs.seed))
			if err := writePNG(path, rs.img); err != nil {
				fmt.Println("error:", err)
				return
			}
			fmt.Printf("minimap: %s\n\n", path)
		}
		all = append(all, rs)
	}
	printAggregate(os.Stdout, all)
}

// runScenario plays the demo forces against each other and records what
// red's radar saw.
func runScenario(runIndex int, seed int64, opts reportOptions) (runStats, error) {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	w := world.NewScenario(append([]world.Option{
		world.WithGrid(opts.grid),
		world.WithMapSize(opts.cols, opts.rows),
		world.WithMaxHeight(opts.maxHeight),
		world.WithSeed(seed),
		world.WithLogger(quiet),
		world.WithRandomTerrain(),
	}, world.DemoForces(opts.grid, opts.cols, opts.rows)...)...)

	r, err := radar.New(w, w.Map, radar.DefaultConfig(image.Rect(0, 0, opts.size, opts.size)),
		radar.WithLogger(quiet),
		radar.WithTerrainLayer(w.Resources),
		radar.WithActors(w),
		radar.WithPings(w),
	)
	if err != nil {
		return runStats{}, err
	}
	defer r.Close()
	r.Follow(w)

	rs := runStats{runIndex: runIndex, seed: seed, firstContactTick: -1, events: w.Log}
	viewer := w.ViewedPlayer()
	offset := w.Log.Len()
	for t := 0; t < opts.ticks; t++ {
		w.Tick()
		r.Tick()
		// Every new sighting by the viewer drops a ping where it was made.
		for _, e := range w.Log.Since(offset) {
			if e.Kind == world.EventContact && e.Player == viewer.Name {
				w.Ping(viewer, grid.CenterOfCell(w.Map.Grid(), e.Cell), viewer.Color)
			}
		}
		offset = w.Log.Len()
	}

	rs.contacts = w.Contacts(viewer)
	if e, ok := w.Log.First(world.EventContact, viewer.Name); ok {
		rs.firstContactTick = e.Tick
	}
	rs.pings = w.Log.Count(world.EventPing)
	rs.unexplored, rs.explored, rs.visible = viewer.Shroud.Count()
	rs.radar = r.Stats()
	rs.img = composite(r)
	return rs, nil
}

// composite renders the radar's layers the way a host would, scaled onto
// the preview rectangle over a black background.
func composite(r *radar.Radar) *image.RGBA {
	mr := r.MapRect()
	dst := image.NewRGBA(image.Rect(0, 0, mr.Dx(), mr.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	src := r.Buffer().Image()
	for _, l := range r.Layers() {
		rect := image.Rect(int(l.Dst.X), int(l.Dst.Y), int(l.Dst.X+l.Dst.W), int(l.Dst.Y+l.Dst.H)).Sub(mr.Min)
		draw.NearestNeighbor.Scale(dst, rect, src, l.Src, draw.Over, nil)
	}
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func coverage(rs runStats) float64 {
	total := rs.unexplored + rs.explored + rs.visible
	if total == 0 {
		return 0
	}
	return float64(rs.explored+rs.visible) / float64(total) * 100
}

func printRun(out io.Writer, rs runStats) {
	fmt.Fprintf(out, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Fprintf(out, "contacts: first=%d total=%d pings=%d\n", rs.firstContactTick, rs.contacts, rs.pings)
	fmt.Fprintf(out, "shroud: unexplored=%d explored=%d visible=%d coverage=%.1f%%\n",
		rs.unexplored, rs.explored, rs.visible, coverage(rs))
	fmt.Fprintf(out, "radar_work: ticks=%d terrain_updates=%d shroud_updates=%d signature_writes=%d reprimes=%d switches=%d\n",
		rs.radar.Ticks, rs.radar.TerrainUpdates, rs.radar.ShroudUpdates, rs.radar.SignatureWrites, rs.radar.Reprimes, rs.radar.Switches)
	fmt.Fprintln(out)
}

func printAggregate(out io.Writer, all []runStats) {
	var contactTicks []int
	totalContacts, totalShroud, totalTerrain := 0, 0, 0
	totalCoverage := 0.0
	for _, rs := range all {
		if rs.firstContactTick >= 0 {
			contactTicks = append(contactTicks, rs.firstContactTick)
		}
		totalContacts += rs.contacts
		totalShroud += rs.radar.ShroudUpdates
		totalTerrain += rs.radar.TerrainUpdates
		totalCoverage += coverage(rs)
	}

	fmt.Fprintln(out, "=== Aggregate ===")
	fmt.Fprintf(out, "runs=%d\n", len(all))
	fmt.Fprintf(out, "first_contact_avg_tick=%s contacts_avg=%.1f\n", avgTickString(contactTicks), avg(totalContacts, len(all)))
	fmt.Fprintf(out, "avg_radar_work_per_run: shroud_updates=%.1f terrain_updates=%.1f\n",
		avg(totalShroud, len(all)), avg(totalTerrain, len(all)))
	if len(all) > 0 {
		fmt.Fprintf(out, "avg_coverage=%.1f%%\n", totalCoverage/float64(len(all)))
	}
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
