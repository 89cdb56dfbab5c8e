package internal

// Field is one of the fixed target vehicle attributes the import
// pipeline produces. Adding a field means extending this set and the
// header synonym table in the pipeline package.
type Field string

const (
	FieldLicensePlate       Field = "licensePlate"
	FieldBrand              Field = "brand"
	FieldModel              Field = "model"
	FieldBrandModel         Field = "brandModel"
	FieldVehicleType        Field = "vehicleType"
	FieldFuel               Field = "fuel"
	FieldCompany            Field = "company"
	FieldRegisteredTo       Field = "registeredTo"
	FieldRegistrationDate   Field = "registrationDate"
	FieldChassisNumber      Field = "chassisNumber"
	FieldAPKDate            Field = "apkDate"
	FieldProductionDate     Field = "productionDate"
	FieldGPS                Field = "gps"
	FieldEuroZone           Field = "euroZone"
	FieldRoadsideAssistance Field = "roadsideAssistance"
	FieldSpareKey           Field = "spareKey"
	FieldWinterTires        Field = "winterTires"
	FieldTireSize           Field = "tireSize"
	FieldInternalNotes      Field = "internalNotes"
	FieldRemarks            Field = "remarks"
	FieldGeneralInfo        Field = "generalInfo"
)

// Candidate is one input row mapped to canonical fields. A field absent
// from the map was never seen; an empty string means a source column or
// heuristic produced an empty value on purpose. Row is the 1-based data
// row number in the source file, preserved through every stage so a
// review list lines up with the original rows.
type Candidate struct {
	Row    int
	Fields map[Field]string
	Valid  bool
	Errors []string
}

func (c Candidate) Get(field Field) (string, bool) {
	value, ok := c.Fields[field]
	return value, ok
}

func (c Candidate) Plate() string {
	return c.Fields[FieldLicensePlate]
}

// VehicleFacts is what the external vehicle registry knows about a
// plate. Empty strings mean the registry had no value.
type VehicleFacts struct {
	LicensePlate     string
	Brand            string
	Model            string
	VehicleType      string
	Fuel             string
	RegistrationDate string
	ChassisNumber    string
	APKDate          string
	ProductionDate   string
}

// CreatedVehicle is the persistence boundary's descriptor for a vehicle
// it created from an accepted candidate.
type CreatedVehicle struct {
	ID           string
	LicensePlate string
	Fields       map[Field]string
}

// CreateResult is the boundary's per-candidate answer: either a created
// vehicle or a failure reason, never both.
type CreateResult struct {
	Vehicle *CreatedVehicle
	Error   string
}

type ImportedRecord struct {
	Source  Candidate
	Vehicle CreatedVehicle
}

type FailedRecord struct {
	Source Candidate
	Reason string
}

// ImportOutcome is the final report of one import operation. Every
// submitted candidate lands in exactly one of the two lists. Warnings
// carry non-fatal mapping problems, like two columns resolving to the
// same canonical field.
type ImportOutcome struct {
	Imported []ImportedRecord
	Failed   []FailedRecord
	Warnings []string
}
