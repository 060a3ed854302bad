/*package parse reads bathyprof's config files and command line flags.

A config file starts with a "[name]" header and is followed by one
"Variable = value" assignment per line. List values are comma-separated and
everything after a '#' is a comment. Variable names are case insensitive.*/
package parse

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

/////////////////////
// Conversion Code //
/////////////////////

type varType int

const (
	intVar varType = iota
	intsVar
	floatVar
	floatsVar
	stringVar
	stringsVar
	boolVar
	boolsVar
)

func (v varType) String() string {
	switch v {
	case intVar:
		return "int"
	case intsVar:
		return "int list"
	case floatVar:
		return "float"
	case floatsVar:
		return "float list"
	case stringVar:
		return "string"
	case stringsVar:
		return "string list"
	case boolVar:
		return "bool"
	case boolsVar:
		return "bool list"
	}
	panic("Impossible")
}

type conversionFunc func(string) bool

// ConfigVars is the set of variables which a config file may assign.
type ConfigVars struct {
	name            string
	varNames        []string
	varTypes        []varType
	conversionFuncs []conversionFunc
}

func intConv(ptr *int64) conversionFunc {
	return func(s string) bool {
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return false
		}
		*ptr = i
		return true
	}
}

func floatConv(ptr *float64) conversionFunc {
	return func(s string) bool {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return false
		}
		*ptr = f
		return true
	}
}

func stringConv(ptr *string) conversionFunc {
	return func(s string) bool {
		*ptr = strings.TrimSpace(s)
		return true
	}
}

func boolConv(ptr *bool) conversionFunc {
	return func(s string) bool {
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return false
		}
		*ptr = b
		return true
	}
}

func strToList(a string) []string {
	if strings.TrimSpace(a) == "" {
		return []string{}
	}
	strs := strings.Split(a, ",")
	for i := range strs {
		strs[i] = strings.TrimSpace(strs[i])
	}
	return strs
}

// listConv converts each element of a comma-separated list with conv. The
// list is only stored if every element converts.
func listConv[T any](ptr *[]T, conv func(string) (T, error)) conversionFunc {
	return func(s string) bool {
		toks := strToList(s)
		out := make([]T, 0, len(toks))
		for j := range toks {
			v, err := conv(toks[j])
			if err != nil {
				return false
			}
			out = append(out, v)
		}
		*ptr = out
		return true
	}
}

func intsConv(ptr *[]int64) conversionFunc {
	return listConv(ptr, func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
}

func floatsConv(ptr *[]float64) conversionFunc {
	return listConv(ptr, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

func stringsConv(ptr *[]string) conversionFunc {
	return listConv(ptr, func(s string) (string, error) { return s, nil })
}

func boolsConv(ptr *[]bool) conversionFunc {
	return listConv(ptr, strconv.ParseBool)
}

func NewConfigVars(name string) *ConfigVars {
	return &ConfigVars{name: name}
}

func (vars *ConfigVars) add(name string, t varType, conv conversionFunc) {
	vars.varNames = append(vars.varNames, strings.ToLower(name))
	vars.conversionFuncs = append(vars.conversionFuncs, conv)
	vars.varTypes = append(vars.varTypes, t)
}

func (vars *ConfigVars) Int(ptr *int64, name string, value int64) {
	*ptr = value
	vars.add(name, intVar, intConv(ptr))
}

func (vars *ConfigVars) Float(ptr *float64, name string, value float64) {
	*ptr = value
	vars.add(name, floatVar, floatConv(ptr))
}

func (vars *ConfigVars) String(ptr *string, name string, value string) {
	*ptr = value
	vars.add(name, stringVar, stringConv(ptr))
}

func (vars *ConfigVars) Bool(ptr *bool, name string, value bool) {
	*ptr = value
	vars.add(name, boolVar, boolConv(ptr))
}

func (vars *ConfigVars) Ints(ptr *[]int64, name string, value []int64) {
	*ptr = value
	vars.add(name, intsVar, intsConv(ptr))
}

func (vars *ConfigVars) Floats(ptr *[]float64, name string, value []float64) {
	*ptr = value
	vars.add(name, floatsVar, floatsConv(ptr))
}

func (vars *ConfigVars) Strings(ptr *[]string, name string, value []string) {
	*ptr = value
	vars.add(name, stringsVar, stringsConv(ptr))
}

func (vars *ConfigVars) Bools(ptr *[]bool, name string, value []bool) {
	*ptr = value
	vars.add(name, boolsVar, boolsConv(ptr))
}

// index returns the position of a lower-case variable name, or -1.
func (vars *ConfigVars) index(name string) int {
	for j := range vars.varNames {
		if vars.varNames[j] == name {
			return j
		}
	}
	return -1
}

//////////////////
// Parsing Code //
//////////////////

// ReadConfig reads the config file fname into vars.
func ReadConfig(fname string, vars *ConfigVars) error {
	bs, err := os.ReadFile(fname)
	if err != nil {
		return err
	}
	lines := strings.Split(string(bs), "\n")
	lines, lineNums := removeComments(lines)
	for i := range lineNums {
		lineNums[i]++
	}

	if len(lines) == 0 || lines[0] != fmt.Sprintf("[%s]", vars.name) {
		return fmt.Errorf(
			"I expected the config file %s to have the header "+
				"[%s] at the top, but didn't find it.", fname, vars.name,
		)
	}
	lines, lineNums = lines[1:], lineNums[1:]

	names, vals, errLine := associationList(lines)
	if errLine != -1 {
		return fmt.Errorf(
			"I could not parse line %d of the config file %s because it "+
				"did not take the form of a variable assignment.",
			lineNums[errLine], fname,
		)
	}

	if errLine = checkValidNames(names, vars); errLine != -1 {
		return fmt.Errorf(
			"Line %d of the config file %s assigns a value to the "+
				"variable '%s', but config files of type %s don't have that "+
				"variable.", lineNums[errLine], fname, names[errLine], vars.name,
		)
	}

	if errLine1, errLine2 := checkDuplicateNames(names); errLine1 != -1 {
		return fmt.Errorf(
			"Lines %d and %d of the config file %s both assign a value to "+
				"the variable '%s'.", lineNums[errLine1], lineNums[errLine2],
			fname, names[errLine1],
		)
	}

	if errLine = convertAssoc(names, vals, vars); errLine != -1 {
		return fmt.Errorf(
			"I could not parse line %d of the config file %s because %s",
			lineNums[errLine], fname, typeError(names[errLine], vals[errLine], vars),
		)
	}

	return nil
}

// ReadFlags assigns variables from command line flags of the form
// "--Name value [value ...]". Multiple values are joined into a list.
func ReadFlags(flags []string, vars *ConfigVars) error {
	names, vals := []string{}, []string{}
	for _, flag := range flags {
		if strings.HasPrefix(flag, "--") {
			name := strings.ToLower(strings.TrimLeft(flag, "-"))
			if name == "" {
				return fmt.Errorf("The flag '%s' doesn't name a variable.", flag)
			}
			names, vals = append(names, name), append(vals, "")
			continue
		}
		if len(names) == 0 {
			return fmt.Errorf("The value '%s' was passed before any "+
				"'--Variable' flag.", flag)
		}
		if last := len(vals) - 1; vals[last] == "" {
			vals[last] = flag
		} else {
			vals[last] += "," + flag
		}
	}

	if i := checkValidNames(names, vars); i != -1 {
		return fmt.Errorf("The flag '--%s' doesn't match any variable in "+
			"%s files.", names[i], vars.name)
	}
	if i, _ := checkDuplicateNames(names); i != -1 {
		return fmt.Errorf("The flag '--%s' was passed more than once.",
			names[i])
	}
	if i := convertAssoc(names, vals, vars); i != -1 {
		return fmt.Errorf("I could not parse the flag '--%s' because %s",
			names[i], typeError(names[i], vals[i], vars))
	}
	return nil
}

func typeError(name, val string, vars *ConfigVars) string {
	typeName := vars.varTypes[vars.index(name)].String()
	a := "a"
	if typeName[0] == 'i' {
		a = "an"
	}
	return fmt.Sprintf("'%s' expects values of type %s and '%s' cannot be "+
		"converted to %s %s.", name, typeName, val, a, typeName)
}

func removeComments(lines []string) ([]string, []int) {
	out, lineNums := []string{}, []int{}
	for i := range lines {
		line := lines[i]
		if comment := strings.Index(line, "#"); comment != -1 {
			line = line[:comment]
		}
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		out = append(out, line)
		lineNums = append(lineNums, i)
	}

	return out, lineNums
}

func associationList(lines []string) ([]string, []string, int) {
	names, vals := []string{}, []string{}
	for i := range lines {
		name, val, ok := strings.Cut(lines[i], "=")
		if !ok {
			return nil, nil, i
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if len(name) == 0 {
			return nil, nil, i
		}
		names = append(names, name)
		vals = append(vals, strings.TrimSpace(val))
	}
	return names, vals, -1
}

func checkValidNames(names []string, vars *ConfigVars) int {
	for i := range names {
		if vars.index(names[i]) == -1 {
			return i
		}
	}
	return -1
}

func checkDuplicateNames(names []string) (int, int) {
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			if names[i] == names[j] {
				return i, j
			}
		}
	}
	return -1, -1
}

func convertAssoc(names, vals []string, vars *ConfigVars) int {
	for i := range names {
		if ok := vars.conversionFuncs[vars.index(names[i])](vals[i]); !ok {
			return i
		}
	}
	return -1
}
