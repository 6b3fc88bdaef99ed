// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stratastor/warren/internal/command"
	"github.com/stratastor/warren/internal/command/commandtest"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/parsers"
	"golang.org/x/exp/maps"
)

// Disk is a block device known to the simulator. Health is one of PASSED,
// FAILED or UNAVAILABLE.
type Disk struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Size   string `json:"size"`
	Model  string `json:"model"`
	Type   string `json:"type"`
	Health string `json:"-"`
}

// DefaultDisks returns n healthy disks, /dev/sdb onwards.
func DefaultDisks(n int) []Disk {
	disks := make([]Disk, n)
	for i := range disks {
		name := fmt.Sprintf("sd%c", 'b'+i)
		disks[i] = Disk{
			Name:   name,
			Path:   "/dev/" + name,
			Size:   "10G",
			Model:  "QEMU HARDDISK",
			Type:   "disk",
			Health: "PASSED",
		}
	}
	return disks
}

type simPool struct {
	name    string
	tokens  []string
	devices []string
	spares  []string
}

type simDataset struct {
	name  string
	props map[string]string
	local map[string]bool
}

type simSnapshot struct {
	name     string
	seq      int
	creation time.Time
}

type failure struct {
	prefix string
	resp   commandtest.Response
}

// Simulator is a stateful stand-in for zpool, zfs, chmod, exportfs,
// systemctl, lsblk and smartctl. It speaks the same argv and prints the same
// output shapes as the real tools, closely enough for the parsers.
type Simulator struct {
	mu          sync.Mutex
	now         func() time.Time
	exportsFile string
	unit        string

	disks     []Disk
	pools     map[string]*simPool
	datasets  map[string]*simDataset
	snapshots map[string]*simSnapshot
	seq       int
	modes     map[string]string
	live      []parsers.ExportLine
	nfsActive bool

	failures []failure
	calls    [][]string
}

// NewSimulator returns a simulator with no pools whose exportfs reads
// exportsFile.
func NewSimulator(exportsFile string, disks ...Disk) *Simulator {
	return &Simulator{
		now:         time.Now,
		exportsFile: exportsFile,
		unit:        "nfs-server",
		disks:       disks,
		pools:       make(map[string]*simPool),
		datasets:    make(map[string]*simDataset),
		snapshots:   make(map[string]*simSnapshot),
		modes:       make(map[string]string),
		nfsActive:   true,
	}
}

// WithClock fixes the time used for creation properties.
func (s *Simulator) WithClock(now func() time.Time) *Simulator {
	s.now = now
	return s
}

// Fail makes every invocation whose argv, with the binary reduced to its base
// name, starts with prefix return resp.
func (s *Simulator) Fail(prefix string, resp commandtest.Response) *Simulator {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{prefix: prefix, resp: resp})
	return s
}

func (s *Simulator) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = nil
}

// Calls returns every argv seen, binaries reduced to base names.
func (s *Simulator) Calls() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.calls))
	copy(out, s.calls)
	return out
}

// Mode returns the last mode chmod applied to path.
func (s *Simulator) Mode(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modes[path]
}

// NFSActive reports the simulated unit state.
func (s *Simulator) NFSActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nfsActive
}

func (s *Simulator) Invoke(ctx context.Context, argv ...string) (*command.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CommandTimeout)
	}
	if len(argv) == 0 {
		return nil, errors.New(errors.CommandNotFound, "empty command")
	}

	args := stripSudo(argv)
	args[0] = filepath.Base(args[0])

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, args)

	joined := strings.Join(args, " ")
	for _, f := range s.failures {
		if strings.HasPrefix(joined, f.prefix) {
			return s.result(argv, f.resp.Stdout, f.resp.Stderr, f.resp.ExitCode)
		}
	}

	var stdout, stderr string
	var code int
	switch args[0] {
	case "zpool":
		stdout, stderr, code = s.zpool(args[1:])
	case "zfs":
		stdout, stderr, code = s.zfs(args[1:])
	case "chmod":
		stdout, stderr, code = s.chmod(args[1:])
	case "exportfs":
		stdout, stderr, code = s.exportfs(args[1:])
	case "systemctl":
		stdout, stderr, code = s.systemctl(args[1:])
	case "lsblk":
		stdout, stderr, code = s.lsblk()
	case "smartctl":
		stdout, stderr, code = s.smartctl(args[1:])
	default:
		return &command.Result{Argv: argv, ExitCode: -1},
			errors.New(errors.CommandStart, "executable file not found in $PATH").
				WithMetadata(errors.MetaCommand, joined)
	}
	return s.result(argv, stdout, stderr, code)
}

func (s *Simulator) result(argv []string, stdout, stderr string, code int) (*command.Result, error) {
	res := &command.Result{
		Argv:     argv,
		Stdout:   []byte(stdout),
		Stderr:   []byte(stderr),
		ExitCode: code,
	}
	if code != 0 {
		return res, errors.NewToolError(argv, code, stderr)
	}
	return res, nil
}

func stripSudo(argv []string) []string {
	out := append([]string(nil), argv...)
	if out[0] != "sudo" {
		return out
	}
	out = out[1:]
	for len(out) > 1 && strings.HasPrefix(out[0], "-") {
		out = out[1:]
	}
	return out
}

func usage(tool string) (string, string, int) {
	return "", tool + ": invalid usage\n", 2
}

// zpool

func (s *Simulator) zpool(args []string) (string, string, int) {
	if len(args) == 0 {
		return usage("zpool")
	}
	switch args[0] {
	case "list":
		return s.zpoolList(args[1:])
	case "create":
		return s.zpoolCreate(args[1:])
	case "destroy":
		if len(args) != 2 {
			return usage("zpool")
		}
		return s.zpoolDestroy(args[1])
	case "get":
		if len(args) != 3 || args[1] != "all" {
			return usage("zpool")
		}
		return s.zpoolGet(args[2])
	case "status":
		full := len(args) == 3 && args[1] == "-P"
		if len(args) != 2 && !full {
			return usage("zpool")
		}
		return s.zpoolStatus(args[len(args)-1], full)
	}
	return usage("zpool")
}

func (s *Simulator) zpoolList(args []string) (string, string, int) {
	names := maps.Keys(s.pools)
	sort.Strings(names)

	if len(args) == 3 && args[0] == "-H" && args[1] == "-o" && args[2] == "name" {
		var b strings.Builder
		for _, n := range names {
			b.WriteString(n + "\n")
		}
		return b.String(), "", 0
	}
	if len(args) != 0 {
		return usage("zpool")
	}

	if len(names) == 0 {
		return "", "no pools available\n", 0
	}
	var b strings.Builder
	b.WriteString("NAME     SIZE  ALLOC   FREE  CKPOINT  EXPANDSZ   FRAG    CAP  DEDUP    HEALTH  ALTROOT\n")
	for _, n := range names {
		fmt.Fprintf(&b, "%-6s  9.50G   110K  9.50G        -         -     0%%     0%%  1.00x    ONLINE  -\n", n)
	}
	return b.String(), "", 0
}

func (s *Simulator) zpoolCreate(args []string) (string, string, int) {
	if len(args) < 2 {
		return usage("zpool")
	}
	name := args[0]
	if _, ok := s.pools[name]; ok {
		return "", fmt.Sprintf("cannot create '%s': pool already exists\n", name), 1
	}

	p := &simPool{name: name}
	inSpares := false
	for _, a := range args[1:] {
		switch {
		case a == "spare":
			inSpares = true
		case a == "mirror" || strings.HasPrefix(a, "raidz"):
			p.tokens = append(p.tokens, a)
		case inSpares:
			p.spares = append(p.spares, a)
		default:
			p.devices = append(p.devices, a)
		}
	}

	var busy []string
	for _, dev := range append(append([]string(nil), p.devices...), p.spares...) {
		if !s.knownDisk(dev) {
			return "", fmt.Sprintf("cannot open '%s': no such device in /dev\n", dev), 1
		}
		if owner := s.owner(dev); owner != "" {
			busy = append(busy, fmt.Sprintf("%s is part of active pool '%s'", dev, owner))
		}
	}
	if len(busy) > 0 {
		return "", "invalid vdev specification\nuse '-f' to override the following errors:\n" +
			strings.Join(busy, "\n") + "\n", 1
	}

	s.pools[name] = p
	s.datasets[name] = s.newDataset(name)
	return "", "", 0
}

func (s *Simulator) zpoolDestroy(name string) (string, string, int) {
	if _, ok := s.pools[name]; !ok {
		return "", fmt.Sprintf("cannot open '%s': no such pool\n", name), 1
	}
	delete(s.pools, name)
	for ds := range s.datasets {
		if ds == name || strings.HasPrefix(ds, name+"/") {
			delete(s.datasets, ds)
		}
	}
	for snap := range s.snapshots {
		if strings.HasPrefix(snap, name+"/") || strings.HasPrefix(snap, name+"@") {
			delete(s.snapshots, snap)
		}
	}
	return "", "", 0
}

func (s *Simulator) zpoolGet(name string) (string, string, int) {
	if _, ok := s.pools[name]; !ok {
		return "", fmt.Sprintf("cannot open '%s': no such pool\n", name), 1
	}
	var b strings.Builder
	b.WriteString("NAME  PROPERTY       VALUE                SOURCE\n")
	for _, kv := range [][2]string{
		{"size", "9.50G"},
		{"capacity", "0%"},
		{"altroot", "-"},
		{"health", "ONLINE"},
		{"autoexpand", "off"},
		{"free", "9.50G"},
		{"allocated", "110K"},
		{"readonly", "off"},
	} {
		src := "-"
		if kv[0] == "autoexpand" {
			src = "default"
		}
		fmt.Fprintf(&b, "%s  %-13s  %-19s  %s\n", name, kv[0], kv[1], src)
	}
	return b.String(), "", 0
}

func (s *Simulator) zpoolStatus(name string, full bool) (string, string, int) {
	p, ok := s.pools[name]
	if !ok {
		return "", fmt.Sprintf("cannot open '%s': no such pool\n", name), 1
	}

	dev := func(d string) string {
		if full {
			return d
		}
		return filepath.Base(d)
	}
	row := func(b *strings.Builder, indent int, name, state string) {
		fmt.Fprintf(b, "\t%s%-*s  %-8s %4d %5d %5d\n",
			strings.Repeat(" ", indent), 14-indent, name, state, 0, 0, 0)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  pool: %s\n state: ONLINE\nconfig:\n\n", name)
	b.WriteString("\tNAME            STATE     READ WRITE CKSUM\n")
	row(&b, 0, name, "ONLINE")
	if len(p.tokens) == 0 {
		for _, d := range p.devices {
			row(&b, 2, dev(d), "ONLINE")
		}
	} else {
		group := p.tokens[0]
		if group == "raidz" {
			group = "raidz1"
		}
		row(&b, 2, group+"-0", "ONLINE")
		for _, d := range p.devices {
			row(&b, 4, dev(d), "ONLINE")
		}
	}
	if len(p.spares) > 0 {
		b.WriteString("\tspares\n")
		for _, d := range p.spares {
			fmt.Fprintf(&b, "\t  %-14s AVAIL\n", dev(d))
		}
	}
	b.WriteString("\nerrors: No known data errors\n")
	return b.String(), "", 0
}

func (s *Simulator) knownDisk(dev string) bool {
	if len(s.disks) == 0 {
		return true
	}
	for _, d := range s.disks {
		if d.Path == dev {
			return true
		}
	}
	return false
}

func (s *Simulator) owner(dev string) string {
	for _, p := range s.pools {
		for _, d := range append(append([]string(nil), p.devices...), p.spares...) {
			if d == dev {
				return p.name
			}
		}
	}
	return ""
}

// zfs

func (s *Simulator) newDataset(name string) *simDataset {
	return &simDataset{
		name: name,
		props: map[string]string{
			"type":           "filesystem",
			"creation":       s.now().Format("Mon Jan _2 15:04 2006"),
			"used":           "96K",
			"available":      "9.50G",
			"referenced":     "96K",
			"mounted":        "yes",
			"mountpoint":     "/" + name,
			"compression":    "off",
			"quota":          "none",
			"readonly":       "off",
			"sharenfs":       "off",
			"checksum":       "on",
			"atime":          "on",
			"recordsize":     "128K",
			"refreservation": "none",
		},
		local: make(map[string]bool),
	}
}

func (s *Simulator) zfs(args []string) (string, string, int) {
	if len(args) == 0 {
		return usage("zfs")
	}
	switch args[0] {
	case "list":
		return s.zfsList(args[1:])
	case "create":
		if len(args) != 2 {
			return usage("zfs")
		}
		return s.zfsCreate(args[1])
	case "destroy":
		if len(args) != 2 {
			return usage("zfs")
		}
		return s.zfsDestroy(args[1])
	case "get":
		return s.zfsGet(args[1:])
	case "set":
		if len(args) != 3 {
			return usage("zfs")
		}
		return s.zfsSet(args[1], args[2])
	case "snapshot":
		if len(args) != 2 {
			return usage("zfs")
		}
		return s.zfsSnapshot(args[1])
	case "rollback":
		if len(args) != 3 || args[1] != "-r" {
			return usage("zfs")
		}
		return s.zfsRollback(args[2])
	}
	return usage("zfs")
}

func (s *Simulator) zfsList(args []string) (string, string, int) {
	kind, cols := "", ""
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-H":
		case "-t":
			i++
			if i < len(args) {
				kind = args[i]
			}
		case "-o":
			i++
			if i < len(args) {
				cols = args[i]
			}
		default:
			return usage("zfs")
		}
	}

	var b strings.Builder
	switch {
	case kind == "filesystem" && cols == "name,used,avail,refer,mountpoint":
		names := maps.Keys(s.datasets)
		sort.Strings(names)
		for _, n := range names {
			p := s.datasets[n].props
			fmt.Fprintf(&b, "%s\t%s\t%s\t%s\t%s\n", n, p["used"], p["available"], p["referenced"], p["mountpoint"])
		}
	case kind == "snapshot" && cols == "name,used,creation":
		snaps := maps.Values(s.snapshots)
		sort.Slice(snaps, func(i, j int) bool { return snaps[i].seq < snaps[j].seq })
		for _, snap := range snaps {
			fmt.Fprintf(&b, "%s\t0B\t%s\n", snap.name, snap.creation.Format("Mon Jan _2 15:04 2006"))
		}
	default:
		return usage("zfs")
	}
	return b.String(), "", 0
}

func (s *Simulator) zfsCreate(name string) (string, string, int) {
	if _, ok := s.datasets[name]; ok {
		return "", fmt.Sprintf("cannot create '%s': dataset already exists\n", name), 1
	}
	parent := filepath.Dir(name)
	if _, ok := s.datasets[parent]; !ok || parent == "." {
		return "", fmt.Sprintf("cannot create '%s': parent does not exist\n", name), 1
	}
	s.datasets[name] = s.newDataset(name)
	return "", "", 0
}

func (s *Simulator) zfsDestroy(name string) (string, string, int) {
	if strings.Contains(name, "@") {
		if _, ok := s.snapshots[name]; !ok {
			return "", "could not find any snapshots to destroy; check snapshot names.\n", 1
		}
		delete(s.snapshots, name)
		return "", "", 0
	}

	if _, ok := s.datasets[name]; !ok {
		return "", fmt.Sprintf("cannot open '%s': dataset does not exist\n", name), 1
	}
	if _, ok := s.pools[name]; ok {
		return "", fmt.Sprintf("cannot destroy '%s': operation does not apply to pools\n", name), 1
	}

	var children []string
	for ds := range s.datasets {
		if strings.HasPrefix(ds, name+"/") {
			children = append(children, ds)
		}
	}
	for snap := range s.snapshots {
		if strings.HasPrefix(snap, name+"@") {
			children = append(children, snap)
		}
	}
	if len(children) > 0 {
		sort.Strings(children)
		return "", fmt.Sprintf("cannot destroy '%s': filesystem has children\n"+
			"use '-r' to destroy the following datasets:\n%s\n", name, strings.Join(children, "\n")), 1
	}
	delete(s.datasets, name)
	return "", "", 0
}

func (s *Simulator) zfsGet(args []string) (string, string, int) {
	if len(args) != 5 || args[0] != "-H" || args[1] != "-o" || args[2] != "name,property,value,source" {
		return usage("zfs")
	}
	props, name := args[3], args[4]

	ds, ok := s.datasets[name]
	if !ok {
		return "", fmt.Sprintf("cannot open '%s': dataset does not exist\n", name), 1
	}

	var keys []string
	if props == "all" {
		keys = maps.Keys(ds.props)
		sort.Strings(keys)
	} else {
		keys = strings.Split(props, ",")
		for _, k := range keys {
			if _, ok := ds.props[k]; !ok {
				return "", fmt.Sprintf("bad property list: invalid property '%s'\n", k), 2
			}
		}
	}

	var b strings.Builder
	for _, k := range keys {
		src := "default"
		switch {
		case ds.local[k]:
			src = "local"
		case k == "type" || k == "creation" || k == "used" || k == "available" ||
			k == "referenced" || k == "mounted":
			src = "-"
		}
		fmt.Fprintf(&b, "%s\t%s\t%s\t%s\n", name, k, ds.props[k], src)
	}
	return b.String(), "", 0
}

var settable = map[string][]string{
	"compression":    {"on", "off", "lz4", "gzip", "zstd", "zle", "lzjb"},
	"readonly":       {"on", "off"},
	"atime":          {"on", "off"},
	"checksum":       {"on", "off", "fletcher4", "sha256"},
	"sharenfs":       nil,
	"quota":          nil,
	"mountpoint":     nil,
	"recordsize":     nil,
	"refreservation": nil,
}

func (s *Simulator) zfsSet(kv, name string) (string, string, int) {
	key, value, ok := strings.Cut(kv, "=")
	if !ok {
		return usage("zfs")
	}
	ds, exists := s.datasets[name]
	if !exists {
		return "", fmt.Sprintf("cannot open '%s': dataset does not exist\n", name), 1
	}

	allowed, known := settable[key]
	if !known && !strings.Contains(key, ":") {
		return "", fmt.Sprintf("cannot set property for '%s': invalid property '%s'\n", name, key), 1
	}
	if len(allowed) > 0 && !contains(allowed, value) {
		return "", fmt.Sprintf("cannot set property for '%s': '%s' must be one of '%s'\n",
			name, key, strings.Join(allowed, " | ")), 1
	}
	if key == "mountpoint" && value != "none" && value != "legacy" && !strings.HasPrefix(value, "/") {
		return "", fmt.Sprintf("cannot set property for '%s': 'mountpoint' must be an absolute path, 'none', or 'legacy'\n", name), 1
	}
	if key == "quota" && value != "none" && !isSize(value) {
		return "", fmt.Sprintf("cannot set property for '%s': bad numeric value '%s'\n", name, value), 1
	}

	ds.props[key] = value
	ds.local[key] = true
	return "", "", 0
}

func (s *Simulator) zfsSnapshot(name string) (string, string, int) {
	fs, _, ok := strings.Cut(name, "@")
	if !ok {
		return usage("zfs")
	}
	if _, exists := s.datasets[fs]; !exists {
		return "", fmt.Sprintf("cannot open '%s': dataset does not exist\n", fs), 1
	}
	if _, exists := s.snapshots[name]; exists {
		return "", fmt.Sprintf("cannot create snapshot '%s': dataset already exists\n", name), 1
	}
	s.seq++
	s.snapshots[name] = &simSnapshot{name: name, seq: s.seq, creation: s.now()}
	return "", "", 0
}

func (s *Simulator) zfsRollback(name string) (string, string, int) {
	snap, ok := s.snapshots[name]
	if !ok {
		return "", fmt.Sprintf("cannot open '%s': dataset does not exist\n", name), 1
	}
	fs, _, _ := strings.Cut(name, "@")
	for n, other := range s.snapshots {
		if strings.HasPrefix(n, fs+"@") && other.seq > snap.seq {
			delete(s.snapshots, n)
		}
	}
	return "", "", 0
}

// chmod

func (s *Simulator) chmod(args []string) (string, string, int) {
	if len(args) != 2 {
		return "", "chmod: missing operand\n", 1
	}
	mode, path := args[0], args[1]
	for _, ds := range s.datasets {
		if ds.props["mountpoint"] == path {
			s.modes[path] = mode
			return "", "", 0
		}
	}
	return "", fmt.Sprintf("chmod: cannot access '%s': No such file or directory\n", path), 1
}

// exportfs

func (s *Simulator) exportfs(args []string) (string, string, int) {
	if len(args) != 1 {
		return usage("exportfs")
	}
	switch args[0] {
	case "-ra":
		data, err := os.ReadFile(s.exportsFile)
		if err != nil && !os.IsNotExist(err) {
			return "", fmt.Sprintf("exportfs: could not open %s\n", s.exportsFile), 1
		}
		s.live = parsers.ExportLineParser{}.ParseExports(data)
		return "", "", 0
	case "-v":
		var b strings.Builder
		for _, l := range s.live {
			for _, c := range l.Clients {
				opts := append(append([]string(nil), c.Options...), "wdelay", "sec=sys", "secure")
				client := c.Client
				if client == "*" {
					client = "<world>"
				}
				if len(l.Path) >= 16 {
					fmt.Fprintf(&b, "%s\n\t\t%s(%s)\n", l.Path, client, strings.Join(opts, ","))
				} else {
					fmt.Fprintf(&b, "%-16s%s(%s)\n", l.Path, client, strings.Join(opts, ","))
				}
			}
		}
		return b.String(), "", 0
	}
	return usage("exportfs")
}

// systemctl

func (s *Simulator) systemctl(args []string) (string, string, int) {
	unitErr := func(unit string) (string, string, int) {
		return "", fmt.Sprintf("Unit %s.service could not be found.\n", unit), 4
	}

	switch {
	case len(args) == 3 && args[0] == "-l" && args[1] == "status":
		if args[2] != s.unit {
			return unitErr(args[2])
		}
		if s.nfsActive {
			return fmt.Sprintf("● %s.service - NFS server and services\n"+
				"     Loaded: loaded (/lib/systemd/system/%s.service; enabled)\n"+
				"     Active: active (exited) since Mon 2025-01-06 10:00:00 UTC\n", s.unit, s.unit), "", 0
		}
		return fmt.Sprintf("○ %s.service - NFS server and services\n"+
			"     Loaded: loaded (/lib/systemd/system/%s.service; disabled)\n"+
			"     Active: inactive (dead)\n", s.unit, s.unit), "", 3
	case len(args) == 3 && args[1] == "--now" && (args[0] == "enable" || args[0] == "disable"):
		if args[2] != s.unit {
			return unitErr(args[2])
		}
		s.nfsActive = args[0] == "enable"
		return "", "", 0
	}
	return usage("systemctl")
}

// lsblk and smartctl

func (s *Simulator) lsblk() (string, string, int) {
	out, err := json.Marshal(struct {
		BlockDevices []Disk `json:"blockdevices"`
	}{BlockDevices: s.disks})
	if err != nil {
		return "", err.Error(), 1
	}
	return string(out), "", 0
}

func (s *Simulator) smartctl(args []string) (string, string, int) {
	if len(args) != 2 || args[0] != "-H" {
		return "", "", 1
	}
	for _, d := range s.disks {
		if d.Path != args[1] {
			continue
		}
		switch d.Health {
		case "PASSED":
			return "=== START OF READ SMART DATA SECTION ===\n" +
				"SMART overall-health self-assessment test result: PASSED\n", "", 0
		case "FAILED":
			return "=== START OF READ SMART DATA SECTION ===\n" +
				"SMART overall-health self-assessment test result: FAILED!\n", "", 8
		}
		break
	}
	return "", fmt.Sprintf("Smartctl open device: %s failed: No such device\n", args[1]), 2
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func isSize(v string) bool {
	v = strings.TrimRight(v, "BKMGTPEbkmgtpe")
	if v == "" {
		return false
	}
	for _, r := range v {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}
