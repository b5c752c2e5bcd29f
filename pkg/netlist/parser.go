// Package netlist parses a SPICE-style netlist and assembles it into
// node/branch-indexed element lists ready for the solver and companion
// engine to consume.
package netlist

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"github.com/edp1096/nodal-spice/pkg/element"
	"github.com/edp1096/nodal-spice/pkg/spiceerr"
)

// rawElement is the line-level parse result, before node names are
// resolved to ids and before sources/models are built into pkg/element
// types.
type rawElement struct {
	kind   string // R, V, I, C, L, M
	name   string
	nodes  []string
	value  float64
	params map[string]string
}

// rawTask is a .PLOTNV/.PLOTIB probe request, resolved against the
// element/node tables once parsing completes.
type rawTask struct {
	kind string // NV (node voltage) or IB (branch current)
	args []string
}

// rawModel is a .MODEL card for a MOSFET model id.
type rawModel struct {
	id     int
	params map[string]float64
}

// ParseResult is the raw, node-name-keyed output of Parse, before Build
// resolves it into a Netlist.
type ParseResult struct {
	Title     string
	Elements  []rawElement
	Models    []rawModel
	Tasks     []rawTask
	Mode      string // "DC" or "TRANS", set by a .MODE line if present; CLI flags take precedence
	FinalTime float64
}

var unitMap = map[string]float64{
	"T":   1e12,
	"G":   1e9,
	"meg": 1e6,
	"K":   1e3,
	"k":   1e3,
	"m":   1e-3,
	"u":   1e-6,
	"n":   1e-9,
	"p":   1e-12,
	"f":   1e-15,
}

var valueRe = regexp.MustCompile(`^([-+]?\d*\.?\d+)(meg|[TGMKkmunpf])?s?$`)

// ParseValue reads a SPICE numeric literal with an optional unit suffix
// (1k -> 1000, 10meg -> 1e7, 100n -> 1e-7).
func ParseValue(val string) (float64, error) {
	matches := valueRe.FindStringSubmatch(strings.TrimSpace(val))
	if matches == nil {
		return 0, spiceerr.Parse("invalid value format: %s", val)
	}
	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, spiceerr.Parse("invalid numeric literal %q: %v", val, err)
	}
	if matches[2] != "" {
		if mul, ok := unitMap[matches[2]]; ok {
			num *= mul
		}
	}
	return num, nil
}

// Parse reads a full netlist: a title line (the first line is always taken
// as the title), then element, .MODEL, .PLOTNV/.PLOTIB, .MODE, and
// .FINALTIME lines in any order.
func Parse(input string) (*ParseResult, error) {
	scanner := bufio.NewScanner(strings.NewReader(input))
	result := &ParseResult{}

	if scanner.Scan() {
		result.Title = strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "*"))
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}
		if strings.HasPrefix(line, ".") {
			if err := parseDirective(result, line); err != nil {
				return nil, err
			}
			continue
		}
		elem, err := parseElement(line)
		if err != nil {
			return nil, err
		}
		result.Elements = append(result.Elements, *elem)
	}
	if err := scanner.Err(); err != nil {
		return nil, spiceerr.IO("reading netlist: %v", err)
	}
	return result, nil
}

func parseDirective(result *ParseResult, line string) error {
	fields := strings.Fields(line)
	switch strings.ToUpper(fields[0]) {
	case ".MODEL":
		m, err := parseModel(fields)
		if err != nil {
			return err
		}
		result.Models = append(result.Models, *m)
	case ".PLOTNV":
		if len(fields) < 2 {
			return spiceerr.Parse(".PLOTNV requires a node argument")
		}
		result.Tasks = append(result.Tasks, rawTask{kind: "NV", args: fields[1:]})
	case ".PLOTIB":
		if len(fields) < 3 {
			return spiceerr.Parse(".PLOTIB requires two node arguments: from to")
		}
		result.Tasks = append(result.Tasks, rawTask{kind: "IB", args: fields[1:3]})
	case ".MODE":
		if len(fields) < 2 {
			return spiceerr.Parse(".MODE requires an analysis mode argument")
		}
		result.Mode = strings.ToUpper(fields[1])
	case ".FINALTIME":
		if len(fields) < 2 {
			return spiceerr.Parse(".FINALTIME requires a value")
		}
		v, err := ParseValue(fields[1])
		if err != nil {
			return err
		}
		result.FinalTime = v
	default:
		return spiceerr.Parse("unsupported directive: %s", fields[0])
	}
	return nil
}

// .MODEL <id> VT <v> MU <v> LAMBDA <v> COX <v> CJ0 <v>
func parseModel(fields []string) (*rawModel, error) {
	if len(fields) < 3 {
		return nil, spiceerr.Parse("insufficient .MODEL fields")
	}
	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, spiceerr.Parse("invalid .MODEL id %q: %v", fields[1], err)
	}
	m := &rawModel{id: id, params: make(map[string]float64)}
	for i := 2; i+1 < len(fields); i += 2 {
		key := strings.ToUpper(fields[i])
		val, err := ParseValue(fields[i+1])
		if err != nil {
			return nil, spiceerr.Parse("invalid .MODEL parameter %s: %v", key, err)
		}
		m.params[key] = val
	}
	return m, nil
}

func parseElement(line string) (*rawElement, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return nil, spiceerr.Parse("invalid element line: %s", line)
	}
	kind := strings.ToUpper(string(fields[0][0]))
	elem := &rawElement{name: fields[0], kind: kind, params: make(map[string]string)}

	switch kind {
	case "V":
		return parseSourceElement(fields, "V")
	case "I":
		return parseSourceElement(fields, "I")
	case "M":
		return parseMosfetElement(fields)
	case "R", "C", "L":
		if len(fields) != 4 {
			return nil, spiceerr.Parse("%s element expects two nodes and a value: %s", kind, line)
		}
		elem.nodes = fields[1:3]
		v, err := ParseValue(fields[3])
		if err != nil {
			return nil, err
		}
		elem.value = v
		return elem, nil
	default:
		return nil, spiceerr.Parse("unsupported element kind: %s", fields[0])
	}
}

// M<name> <nD> <nG> <nS> <N|P> <W> <L> <modelId>, where the last three
// fields may be given either positionally or as key=value pairs
// (W=1 L=1 modelId=1), the latter matching how spec scenarios write them.
func parseMosfetElement(fields []string) (*rawElement, error) {
	if len(fields) != 8 {
		return nil, spiceerr.Parse("MOSFET element expects 3 nodes, type, W, L, modelId: %s", strings.Join(fields, " "))
	}
	elem := &rawElement{name: fields[0], kind: "M", nodes: fields[1:4], params: make(map[string]string)}
	polarity := strings.ToUpper(fields[4])
	if polarity != "N" && polarity != "P" {
		return nil, spiceerr.Parse("invalid MOSFET polarity: %s", fields[4])
	}
	elem.params["polarity"] = polarity

	rest := fields[5:8]
	if strings.Contains(rest[0], "=") {
		kv := make(map[string]string, 3)
		for _, tok := range rest {
			parts := strings.SplitN(tok, "=", 2)
			if len(parts) != 2 {
				return nil, spiceerr.Parse("invalid MOSFET parameter: %s", tok)
			}
			kv[strings.ToLower(parts[0])] = parts[1]
		}
		w, err := ParseValue(kv["w"])
		if err != nil {
			return nil, err
		}
		l, err := ParseValue(kv["l"])
		if err != nil {
			return nil, err
		}
		elem.params["w"] = strconv.FormatFloat(w, 'g', -1, 64)
		elem.params["l"] = strconv.FormatFloat(l, 'g', -1, 64)
		elem.params["modelId"] = kv["modelid"]
		return elem, nil
	}

	w, err := ParseValue(rest[0])
	if err != nil {
		return nil, err
	}
	l, err := ParseValue(rest[1])
	if err != nil {
		return nil, err
	}
	elem.params["w"] = strconv.FormatFloat(w, 'g', -1, 64)
	elem.params["l"] = strconv.FormatFloat(l, 'g', -1, 64)
	elem.params["modelId"] = rest[2]
	return elem, nil
}

// parseSourceElement parses V/I elements in DC, SIN, PULSE, and PWL forms.
func parseSourceElement(fields []string, kind string) (*rawElement, error) {
	if len(fields) < 4 {
		return nil, spiceerr.Parse("insufficient %s source parameters", kind)
	}
	elem := &rawElement{name: fields[0], kind: kind, nodes: []string{fields[1], fields[2]}, params: make(map[string]string)}

	remaining := strings.Join(fields[3:], " ")
	remaining = strings.ReplaceAll(remaining, "(", " ( ")
	remaining = strings.ReplaceAll(remaining, ")", " ) ")
	words := strings.Fields(remaining)
	if len(words) == 0 {
		return nil, spiceerr.Parse("missing %s source waveform", kind)
	}

	switch strings.ToUpper(words[0]) {
	case "DC":
		if len(words) < 2 {
			return nil, spiceerr.Parse("missing DC value")
		}
		v, err := ParseValue(words[1])
		if err != nil {
			return nil, err
		}
		elem.params["type"] = "dc"
		elem.value = v
	case "SIN":
		elem.params["type"] = "sin"
		elem.params["sin"] = strings.Trim(strings.Join(words[1:], " "), "() ")
	case "PULSE":
		elem.params["type"] = "pulse"
		elem.params["pulse"] = strings.Trim(strings.Join(words[1:], " "), "() ")
	case "PWL":
		elem.params["type"] = "pwl"
		elem.params["pwl"] = strings.Trim(strings.Join(words[1:], " "), "() ")
	default:
		return nil, spiceerr.Parse("unsupported %s source waveform: %s", kind, words[0])
	}
	return elem, nil
}

func parseSinParams(params string) (offset, amplitude, freq, phase float64, err error) {
	f := strings.Fields(params)
	if len(f) < 3 {
		return 0, 0, 0, 0, spiceerr.Parse("insufficient SIN parameters")
	}
	if offset, err = ParseValue(f[0]); err != nil {
		return
	}
	if amplitude, err = ParseValue(f[1]); err != nil {
		return
	}
	if freq, err = ParseValue(f[2]); err != nil {
		return
	}
	if len(f) > 3 {
		phase, err = ParseValue(f[3])
	}
	return
}

func parsePulseParams(params string) (v1, v2, delay, rise, fall, width, period float64, err error) {
	f := strings.Fields(params)
	if len(f) < 7 {
		err = spiceerr.Parse("insufficient PULSE parameters")
		return
	}
	vals := make([]float64, 7)
	for i := 0; i < 7; i++ {
		if vals[i], err = ParseValue(f[i]); err != nil {
			return
		}
	}
	return vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], vals[6], nil
}

func parsePWLParams(params string) (times, values []float64, err error) {
	f := strings.Fields(params)
	if len(f) < 4 || len(f)%2 != 0 {
		return nil, nil, spiceerr.Parse("PWL requires pairs of time-value points")
	}
	n := len(f) / 2
	times = make([]float64, n)
	values = make([]float64, n)
	for i := 0; i < n; i++ {
		if times[i], err = ParseValue(f[2*i]); err != nil {
			return nil, nil, err
		}
		if values[i], err = ParseValue(f[2*i+1]); err != nil {
			return nil, nil, err
		}
		if i > 0 && times[i] <= times[i-1] {
			return nil, nil, spiceerr.Parse("PWL time points must be strictly increasing")
		}
	}
	return times, values, nil
}

// buildSource constructs a VoltageSource or CurrentSource from a parsed
// element, given its resolved node ids.
func buildSource(e rawElement, nPos, nNeg element.NodeId) (element.Element, error) {
	switch e.params["type"] {
	case "dc":
		if e.kind == "V" {
			return element.NewDCVoltageSource(e.name, nPos, nNeg, e.value), nil
		}
		return element.NewDCCurrentSource(e.name, nPos, nNeg, e.value), nil
	case "sin":
		offset, amp, freq, phase, err := parseSinParams(e.params["sin"])
		if err != nil {
			return nil, err
		}
		if e.kind == "V" {
			return element.NewSinVoltageSource(e.name, nPos, nNeg, offset, amp, freq, phase), nil
		}
		return element.NewSinCurrentSource(e.name, nPos, nNeg, offset, amp, freq, phase), nil
	case "pulse":
		v1, v2, delay, rise, fall, width, period, err := parsePulseParams(e.params["pulse"])
		if err != nil {
			return nil, err
		}
		if e.kind == "V" {
			return element.NewPulseVoltageSource(e.name, nPos, nNeg, v1, v2, delay, rise, fall, width, period), nil
		}
		return element.NewPulseCurrentSource(e.name, nPos, nNeg, v1, v2, delay, rise, fall, width, period), nil
	case "pwl":
		times, values, err := parsePWLParams(e.params["pwl"])
		if err != nil {
			return nil, err
		}
		if e.kind == "V" {
			return element.NewPWLVoltageSource(e.name, nPos, nNeg, times, values), nil
		}
		return element.NewPWLCurrentSource(e.name, nPos, nNeg, times, values), nil
	default:
		return nil, spiceerr.Parse("unsupported source type for %s", e.name)
	}
}
