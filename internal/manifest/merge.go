package manifest

import (
	"fmt"

	"github.com/quasar/mclauncher/internal/rules"
)

// Merge combines child with its parent, returning a new profile. Missing
// scalar fields on child take the parent's value; where a field is
// "numeric scalar" and both set it, the larger value wins. Libraries are
// union-merged by Maven identifier. Argument declarations must share the
// same V14/V21 shape or the merge fails.
func Merge(child, parent *VersionProfile) (*VersionProfile, error) {
	merged := *child

	if merged.AssetIndex == nil {
		merged.AssetIndex = parent.AssetIndex
	}
	if merged.Assets == "" {
		merged.Assets = parent.Assets
	}
	if merged.MainClass == "" {
		merged.MainClass = parent.MainClass
	}
	if merged.Downloads.Client == nil {
		merged.Downloads.Client = parent.Downloads.Client
	}
	if merged.Downloads.Server == nil {
		merged.Downloads.Server = parent.Downloads.Server
	}
	if merged.Downloads.ClientMappings == nil {
		merged.Downloads.ClientMappings = parent.Downloads.ClientMappings
	}
	if merged.Downloads.ServerMappings == nil {
		merged.Downloads.ServerMappings = parent.Downloads.ServerMappings
	}

	merged.JavaVersion = mergeJavaVersion(merged.JavaVersion, parent.JavaVersion)

	libs, err := mergeLibraries(child.Libraries, parent.Libraries)
	if err != nil {
		return nil, err
	}
	merged.Libraries = libs

	args, err := mergeArguments(child, parent)
	if err != nil {
		return nil, err
	}
	merged.Arguments = args.structured
	merged.MinecraftArguments = args.flat

	return &merged, nil
}

func mergeJavaVersion(child, parent *JavaVersionReq) *JavaVersionReq {
	switch {
	case child == nil:
		return parent
	case parent == nil:
		return child
	}
	merged := *child
	if merged.Component == "" {
		merged.Component = parent.Component
	}
	if parent.MajorVersion > merged.MajorVersion {
		merged.MajorVersion = parent.MajorVersion
	}
	return &merged
}

func mergeLibraries(childLibs, parentLibs []Library) ([]Library, error) {
	order := make([]string, 0, len(childLibs)+len(parentLibs))
	byID := make(map[string]Library, len(childLibs)+len(parentLibs))

	for _, lib := range childLibs {
		id, err := Identifier(lib.Name)
		if err != nil {
			return nil, err
		}
		if _, seen := byID[id]; !seen {
			order = append(order, id)
		}
		byID[id] = lib
	}

	for _, plib := range parentLibs {
		id, err := Identifier(plib.Name)
		if err != nil {
			return nil, err
		}
		clib, seen := byID[id]
		if !seen {
			order = append(order, id)
			byID[id] = plib
			continue
		}
		byID[id] = mergeLibrary(clib, plib)
	}

	result := make([]Library, 0, len(order))
	for _, id := range order {
		result = append(result, byID[id])
	}
	return result, nil
}

func mergeLibrary(child, parent Library) Library {
	merged := child
	merged.Rules = append(append([]rules.Rule{}, child.Rules...), parent.Rules...)

	if merged.Downloads.Artifact == nil {
		merged.Downloads.Artifact = parent.Downloads.Artifact
	}
	if parent.Downloads.Classifiers != nil {
		classifiers := make(map[string]Artifact, len(merged.Downloads.Classifiers)+len(parent.Downloads.Classifiers))
		for k, v := range merged.Downloads.Classifiers {
			classifiers[k] = v
		}
		for k, v := range parent.Downloads.Classifiers {
			if _, ok := classifiers[k]; !ok {
				classifiers[k] = v
			}
		}
		merged.Downloads.Classifiers = classifiers
	}

	if parent.Natives != nil {
		natives := make(map[string]string, len(merged.Natives)+len(parent.Natives))
		for k, v := range merged.Natives {
			natives[k] = v
		}
		for k, v := range parent.Natives {
			if _, ok := natives[k]; !ok {
				natives[k] = v
			}
		}
		merged.Natives = natives
	}

	if merged.URL == "" {
		merged.URL = parent.URL
	}
	return merged
}

type mergedArguments struct {
	structured *Arguments
	flat       string
}

func mergeArguments(child, parent *VersionProfile) (mergedArguments, error) {
	switch {
	case child.IsV21() && parent.IsV21():
		return mergedArguments{structured: &Arguments{
			Game: append(append([]ArgElement{}, child.Arguments.Game...), parent.Arguments.Game...),
			JVM:  append(append([]ArgElement{}, child.Arguments.JVM...), parent.Arguments.JVM...),
		}}, nil
	case child.IsV14() && parent.IsV14():
		flat := child.MinecraftArguments
		if flat == "" {
			flat = parent.MinecraftArguments
		}
		return mergedArguments{flat: flat}, nil
	case !child.IsV21() && !child.IsV14():
		// child declares neither shape: inherit parent's wholesale.
		return mergedArguments{structured: parent.Arguments, flat: parent.MinecraftArguments}, nil
	case !parent.IsV21() && !parent.IsV14():
		return mergedArguments{structured: child.Arguments, flat: child.MinecraftArguments}, nil
	default:
		return mergedArguments{}, fmt.Errorf("%w: incompatible argument-declaration shapes between parent and child", ErrInvalidVersionProfile)
	}
}
