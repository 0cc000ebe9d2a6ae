// dlist binaries use flags and a single config file for configuration.
// A config file is stored in .txtpb format and contains the values that can be set via flags.
// Flags given explicitly on the command line win over the config file.

package config

import (
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

var configFile = flag.String("config_file", "config.txtpb", "Path to the configuration file.")

// skippedProtobufFlags is the list of command line flags on which the protobuf check is disabled.
var skippedProtobufFlags = []string{"print_version", "config_file"}

// protobufValueToString converts a protobuf field value to its string representation suitable for flag setting.
func protobufValueToString(fd protoreflect.FieldDescriptor, v protoreflect.Value) (string, error) {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return strconv.FormatBool(v.Bool()), nil
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind,
		protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return strconv.FormatInt(v.Int(), 10), nil
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind,
		protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return strconv.FormatUint(v.Uint(), 10), nil
	case protoreflect.FloatKind:
		return strconv.FormatFloat(v.Float(), 'g', -1, 32), nil
	case protoreflect.DoubleKind:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64), nil
	case protoreflect.StringKind:
		return v.String(), nil
	case protoreflect.BytesKind:
		return base64.StdEncoding.EncodeToString(v.Bytes()), nil
	case protoreflect.EnumKind:
		// Use enum name for readability.
		if ev := fd.Enum().Values().ByNumber(v.Enum()); ev != nil {
			return string(ev.Name()), nil
		}
		return strconv.FormatInt(int64(v.Enum()), 10), nil
	default:
		return "", fmt.Errorf("unsupported kind: %v", fd.Kind())
	}
}

// collectFlags collects the flag values set in the given protobuf message into `flags`.
// Leaf fields are named after their flag; nested messages are walked recursively.
func collectFlags(flags map[ /*flagName*/ string] /*flagValue*/ string, m protoreflect.Message) error {
	var err error
	m.Range(func(fd protoreflect.FieldDescriptor, v protoreflect.Value) bool {
		// Lists/maps are not supported by design.
		if fd.IsList() || fd.IsMap() {
			err = fmt.Errorf("repeated/map not supported: %s", fd.FullName())
			return false
		}
		if fd.Kind() == protoreflect.MessageKind {
			err = collectFlags(flags, v.Message())
			return err == nil
		}
		flagName := string(fd.Name())
		stringValue, convErr := protobufValueToString(fd, v)
		if convErr != nil {
			err = fmt.Errorf("failed to convert %s: %w", fd.FullName(), convErr)
			return false
		}
		// Check for duplicate flag entries.
		if _, alreadyExists := flags[flagName]; alreadyExists {
			err = fmt.Errorf("flag '%s' has multiple entries in txtpb config: '%s'", flagName, fd.FullName())
			return false
		}
		flags[flagName] = stringValue
		return true
	})
	return err
}

// applyConfig parses the given txtpb config and sets every flag it contains, except the ones in `keep`.
// Fields whose flag isn't defined in the running binary are skipped.
func applyConfig(configBytes []byte, keep map[ /*flagName*/ string]struct{}) error {
	conf := dynamicpb.NewMessage(configDescriptor)
	if err := prototext.Unmarshal(configBytes, conf); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	configFlags := make(map[ /*flagName*/ string] /*flagValue*/ string)
	if err := collectFlags(configFlags, conf.ProtoReflect()); err != nil {
		return fmt.Errorf("failed to collect flags: %w", err)
	}
	return setFlags(configFlags, keep)
}

// setFlags sets the given flags in name order, skipping the ones in `keep` and the ones not defined in this binary.
// Either every flag is set or, on the first failure, the ones already set are reverted.
func setFlags(
	configFlags map[ /*flagName*/ string] /*flagValue*/ string, keep map[ /*flagName*/ string]struct{},
) error {
	prevValues := make(map[ /*flagName*/ string] /*flagValue*/ string)
	for _, flagName := range slices.Sorted(maps.Keys(configFlags)) {
		if _, explicit := keep[flagName]; explicit {
			slog.Debug("Flag is set on the command line; ignoring config value.", "flag", flagName)
			continue
		}
		flagHolder := flag.Lookup(flagName)
		if flagHolder == nil {
			slog.Debug("Flag is not defined in this binary; ignoring config value.", "flag", flagName)
			continue
		}
		prevValue := flagHolder.Value.String()
		if setErr := flag.Set(flagName, configFlags[flagName]); setErr != nil {
			return errors.Join(fmt.Errorf("failed to set flag %s: %w", flagName, setErr), revertFlags(prevValues))
		}
		prevValues[flagName] = prevValue
	}
	return nil
}

// revertFlags sets the given flags back to their previous values.
func revertFlags(prevValues map[ /*flagName*/ string] /*flagValue*/ string) error {
	var errs []error
	for flagName, prevValue := range prevValues {
		if err := flag.Set(flagName, prevValue); err != nil {
			errs = append(errs, fmt.Errorf("failed to revert flag %s: %w", flagName, err))
		}
	}
	return errors.Join(errs...)
}

// explicitFlags returns the flags that have been set since the program started, i.e. on the command line when
// called right after flag.Parse().
func explicitFlags() map[ /*flagName*/ string]struct{} {
	explicit := make(map[ /*flagName*/ string]struct{})
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = struct{}{} })
	return explicit
}

// loadConfigFile reads the config file in `path` and applies it on top of the current flag values,
// leaving the flags in `keep` untouched.
func loadConfigFile(path string, keep map[ /*flagName*/ string]struct{}) error {
	configBytes, err := readFile(path)
	if err != nil {
		return err
	}
	return applyConfig(configBytes, keep)
}

func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return io.ReadAll(file)
}

// InitFlags initializes the flags from the config file specified by the -config_file flag.
// It should be called after defining all flags and before using them.
// Assumes config file doesn't have repeated/map fields. Supports nested messages only.
func InitFlags() {
	flag.Parse()
	commandLineFlags := explicitFlags()

	if *configFile == "" {
		slog.Info("Config file not specified. Skipping config initialization.")
		return
	}
	err := loadConfigFile(*configFile, commandLineFlags)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("Config file does not exist. Using flag values.", "path", *configFile)
		return
	}
	if err != nil { // A broken config file is not fatal; flag values still apply.
		slog.Error("Failed to load config file.", "path", *configFile, "error", err)
	}
}

// getDefinedFlags returns the set of defined flags inside the given protobuf message schema.
func getDefinedFlags(md protoreflect.MessageDescriptor) (map[ /*flagName*/ string]struct{}, error) {
	flagSet := make(map[ /*flagName*/ string]struct{})
	var walkFields func(md protoreflect.MessageDescriptor) error
	walkFields = func(md protoreflect.MessageDescriptor) error {
		for fieldIdx := 0; fieldIdx < md.Fields().Len(); fieldIdx++ {
			fd := md.Fields().Get(fieldIdx)
			if fd.IsList() || fd.IsMap() {
				continue // Skip repeated/map fields.
			}
			if fd.Kind() == protoreflect.MessageKind {
				if err := walkFields(fd.Message()); err != nil {
					return err
				}
				continue
			}
			flagName := string(fd.Name())
			if _, exists := flagSet[flagName]; exists {
				return fmt.Errorf("duplicate flag name '%s' in config: %s", flagName, fd.FullName())
			}
			flagSet[flagName] = struct{}{}
		}
		return nil
	}
	if err := walkFields(md); err != nil {
		return nil, err
	}
	return flagSet, nil
}

// CollectUnregisteredFlags collects all flags that haven't been registered in the protobuf config.
// An error exists in the results corresponding to each unregistered flag.
func CollectUnregisteredFlags() []error {
	definedFlags, err := getDefinedFlags(configDescriptor)
	if err != nil {
		return []error{err}
	}
	errs := make([]error, 0)
	flag.VisitAll(func(f *flag.Flag) {
		if strings.HasPrefix(f.Name, "test.") { // Skip test flags.
			return
		}
		if slices.Contains(skippedProtobufFlags, f.Name) {
			return
		}
		if _, flagHasConfigEntry := definedFlags[f.Name]; !flagHasConfigEntry {
			errs = append(errs, fmt.Errorf("flag '%s' has not been defined in protobuf config", f.Name))
		}
	})
	return errs
}
