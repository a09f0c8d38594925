// Package reformat gives the HDF5 output of the inference driver labeled
// dimensions and rewrites it as netCDF.
package reformat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/pkg/errors"

	"github.com/rtm0/fcnpost/internal/ncarray"
)

// Variable is a named variable held in memory.
type Variable struct {
	Name string
	api.Variable
}

// Dataset is the in-memory content of a netCDF or HDF5 file.
type Dataset struct {
	Vars  []Variable
	Attrs api.AttributeMap
}

// Load reads every variable and the global attributes of a netCDF or HDF5
// file. The file is closed before Load returns.
func Load(filePath string) (*Dataset, error) {
	nc, err := netcdf.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer nc.Close()

	ds := &Dataset{Attrs: nc.Attributes()}
	for _, name := range nc.ListVariables() {
		vr, err := nc.GetVariable(name)
		if err != nil {
			return nil, errors.Wrapf(err, "variable %q", name)
		}
		ds.Vars = append(ds.Vars, Variable{Name: name, Variable: *vr})
	}
	nameAxes(ds.Vars)
	return ds, nil
}

// nameAxes gives placeholder dimension names to variables stored without
// dimension scales, as h5py writes them. Names follow the netCDF-C scheme:
// phony_dim_N is shared by every axis of the same length, except that a
// variable never uses the same placeholder twice.
func nameAxes(vars []Variable) {
	type phony struct {
		name string
		n    int
	}
	var dims []phony
	for i := range vars {
		if len(vars[i].Dimensions) > 0 {
			continue
		}
		shape := ncarray.Shape(vars[i].Values)
		if len(shape) == 0 {
			continue
		}
		names := make([]string, len(shape))
		used := map[string]bool{}
		for j, n := range shape {
			for _, d := range dims {
				if d.n == n && !used[d.name] {
					names[j] = d.name
					break
				}
			}
			if names[j] == "" {
				names[j] = fmt.Sprintf("phony_dim_%d", len(dims))
				dims = append(dims, phony{name: names[j], n: n})
			}
			used[names[j]] = true
		}
		vars[i].Dimensions = names
	}
}

// Var returns the named variable or nil.
func (ds *Dataset) Var(name string) *Variable {
	for i := range ds.Vars {
		if ds.Vars[i].Name == name {
			return &ds.Vars[i]
		}
	}
	return nil
}

// Dims returns the length of every dimension used by the dataset's
// variables.
func (ds *Dataset) Dims() (map[string]int, error) {
	dims := map[string]int{}
	for _, v := range ds.Vars {
		shape := ncarray.Shape(v.Values)
		if len(shape) != len(v.Dimensions) {
			continue
		}
		for i, d := range v.Dimensions {
			if n, ok := dims[d]; ok && n != shape[i] {
				return nil, errors.Errorf("dimension %q has length %d in %q and %d elsewhere", d, shape[i], v.Name, n)
			}
			dims[d] = shape[i]
		}
	}
	return dims, nil
}

// Write saves ds as a netCDF file.
func Write(filePath string, ds *Dataset) error {
	cw, err := cdf.OpenWriter(filePath)
	if err != nil {
		return err
	}
	for _, v := range ds.Vars {
		vr := v.Variable
		if vr.Attributes == nil {
			if vr.Attributes, err = ncarray.Attributes(); err != nil {
				cw.Close()
				return err
			}
		}
		if err := cw.AddVar(v.Name, vr); err != nil {
			cw.Close()
			return errors.Wrapf(err, "add variable %q", v.Name)
		}
	}
	if ds.Attrs != nil && len(ds.Attrs.Keys()) > 0 {
		if err := cw.AddGlobalAttrs(ds.Attrs); err != nil {
			cw.Close()
			return errors.Wrap(err, "add global attributes")
		}
	}
	return cw.Close()
}

// Describe renders a human-readable summary of ds.
func Describe(ds *Dataset) string {
	var sb strings.Builder
	dims, err := ds.Dims()
	if err != nil {
		fmt.Fprintf(&sb, "Dimensions: %v\n", err)
	} else {
		names := make([]string, 0, len(dims))
		for d := range dims {
			names = append(names, d)
		}
		sort.Strings(names)
		sb.WriteString("Dimensions:")
		for _, d := range names {
			fmt.Fprintf(&sb, " %s: %d", d, dims[d])
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Variables:\n")
	for _, v := range ds.Vars {
		fmt.Fprintf(&sb, "    %s (%s) %T\n", v.Name, strings.Join(v.Dimensions, ", "), v.Values)
		writeAttrs(&sb, "        ", v.Attributes)
	}
	if ds.Attrs != nil && len(ds.Attrs.Keys()) > 0 {
		sb.WriteString("Attributes:\n")
		writeAttrs(&sb, "    ", ds.Attrs)
	}
	return sb.String()
}

func writeAttrs(sb *strings.Builder, indent string, attrs api.AttributeMap) {
	if attrs == nil {
		return
	}
	for _, k := range attrs.Keys() {
		v, _ := attrs.Get(k)
		fmt.Fprintf(sb, "%s%s: %v\n", indent, k, v)
	}
}
