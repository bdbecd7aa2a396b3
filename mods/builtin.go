package mods

// Publisher mods shipped with the game. They are present in every catalog
// whether or not the user's mod folder contains them.
const (
	GustavUUID     = "991c9c7a-fb80-40cb-8f0d-b92d4e80e9b1"
	GustavDevUUID  = "28ac9ce2-2aba-8cda-b3b5-6e922f71b6b8"
	SharedUUID     = "ed539163-bb70-431b-96a7-f5b2eda5376b"
	SharedDevUUID  = "3d0c5ff8-c95d-c907-ff3e-34b204f1c630"
	MainUIUUID     = "630daa32-70f8-3da5-41b9-154fe8410236"
	ModBrowserUUID = "ee5a55ff-eb38-0b27-c5b0-f358dc306d34"
	FW3UUID        = "e5c9077e-1fca-4f24-b55d-464f512c98a8"
	EngineUUID     = "9dff4c3b-fda7-43de-a763-ce1383039999"
	HonourUUID     = "b77b6210-ac50-4cb1-a3d5-5702fb9c744c"
)

// DefaultAdventureUUID is the campaign the game loads when nothing else is
// selected.
const DefaultAdventureUUID = GustavDevUUID

var builtinVersion = NewVersion(4, 0, 0, 0)

func builtin(uuid, name string, t ModType) ModRecord {
	return ModRecord{
		UUID:          uuid,
		Name:          name,
		Folder:        name,
		Version:       builtinVersion,
		Author:        "Larian Studios",
		Type:          t,
		IsForceLoaded: true,
	}
}

// BuiltinMods returns fresh copies of the publisher mods.
func BuiltinMods() []ModRecord {
	return []ModRecord{
		builtin(GustavUUID, "Gustav", TypeAdventure),
		builtin(GustavDevUUID, "GustavDev", TypeAdventure),
		builtin(SharedUUID, "Shared", TypeAddon),
		builtin(SharedDevUUID, "SharedDev", TypeAddon),
		builtin(MainUIUUID, "MainUI", TypeAddon),
		builtin(ModBrowserUUID, "ModBrowser", TypeAddon),
		builtin(FW3UUID, "FW3", TypeAddon),
		builtin(EngineUUID, "Engine", TypeAddon),
		builtin(HonourUUID, "Honour", TypeAddon),
	}
}

var builtinSet = func() map[string]struct{} {
	s := make(map[string]struct{})
	for _, m := range BuiltinMods() {
		s[m.UUID] = struct{}{}
	}
	return s
}()

// IsBuiltin reports whether uuid names one of the publisher mods.
func IsBuiltin(uuid string) bool {
	_, ok := builtinSet[uuid]
	return ok
}
