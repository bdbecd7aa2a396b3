package mods

func mod(uuid, name string, deps ...string) ModRecord {
	m := ModRecord{UUID: uuid, Name: name, Folder: name, Type: TypeAddon, Version: NewVersion(1, 0, 0, 0), IsUserInstalled: true}
	for _, d := range deps {
		m.Dependencies = append(m.Dependencies, ModuleRef{UUID: d, Name: d})
	}
	return m
}

func catalogOf(records ...ModRecord) *Catalog {
	c := NewCatalog()
	for _, r := range records {
		if _, err := c.Add(r); err != nil {
			panic(err)
		}
	}
	return c
}

func orderOf(uuids ...string) *LoadOrder {
	o := NewLoadOrder("test")
	for _, u := range uuids {
		if _, err := o.Add(LoadOrderEntry{UUID: u, Name: u + "-cached"}, false); err != nil {
			panic(err)
		}
	}
	return o
}
