package seeders

// The starter library every fresh install gets. Points are referenced by
// ordinal (their position in starterPoints) so the seeder works with
// whatever ids the database hands out.

type starterPoint struct {
	Ordinal    int
	Name       string
	PointType  string
	PartNumber string
}

var starterPoints = []starterPoint{
	{1, "Supply Air Temp", "AI", "T-S-10k"},
	{2, "Return Air Temp", "AI", "T-S-10k"},
	{3, "Filter Status", "DI", "P-SWITCH-1"},
	{4, "Fan Status", "DI", ""},
	{5, "Compressor Status", "DI", ""},
	{6, "Fan Start/Stop", "DO", ""},
	{7, "Cooling Valve", "AO", "V-MOD-1"},
	{8, "Heating Valve", "AO", "V-MOD-2"},
	{9, "Reversing Valve", "DO", ""},
	{10, "Zone CO2 Level", "BACnet", ""},
	{11, "VFD Speed", "Modbus", ""},
}

type starterTemplate struct {
	TypeKey string
	Name    string
	Points  []int
}

var starterTemplates = []starterTemplate{
	{TypeKey: "ahu", Name: "Air Handling Unit", Points: []int{1, 2, 3, 4, 6, 7, 8, 11}},
	{TypeKey: "fcu", Name: "Fan Coil Unit", Points: []int{1, 4, 6, 7}},
	{TypeKey: "hp", Name: "Heat Pump", Points: []int{1, 2, 5, 6, 9}},
}

type starterPanel struct {
	PanelName string
	Floor     string
}

var starterPanels = []starterPanel{
	{PanelName: "LP-GF-01", Floor: "Ground Floor"},
	{PanelName: "LP-L1-01", Floor: "Level 1"},
}

type starterInstance struct {
	InstanceName   string
	Quantity       int
	PanelName      string
	TypeKey        string
	SelectedPoints []int
}

var starterSchedule = []starterInstance{
	{InstanceName: "AHU-GF-01", Quantity: 1, PanelName: "LP-GF-01", TypeKey: "ahu", SelectedPoints: []int{1, 3, 4, 6, 8}},
	{InstanceName: "VAV-GF-Zone", Quantity: 5, PanelName: "LP-GF-01", TypeKey: "fcu", SelectedPoints: []int{4, 6, 10}},
}
