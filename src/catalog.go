package elitech

/*------------------------------------------------------------------
 *
 * Purpose:	The authoritative parameter table: every named field's
 *		byte/bit offset, width, and encoding, in declaration
 *		order. This is the one place device memory layout is
 *		described; everything else in this package is generic
 *		over it.
 *
 *------------------------------------------------------------------*/

// catalog is the device's parameter table, offsets 0x00 through 0x95.
// travel-number is 13 bytes: the device firmware in the field ships
// two incompatible table revisions, one with a 7-byte travel-number
// and one with 13; the 13-byte revision is the superset and is used
// here.
var catalog = []Parameter{
	NewWordParameter("model", "Product id of the device from its memory", 0x00, false),
	NewStringParameter("serial-number", "Serial number of the device", 0x02, 12, false),
	// Bytes 0x0E-0x0F reserved.
	NewStringParameter("travel-number", "Travel number", 0x10, 13, true),
	NewEnumParameter("pdf-language", "Language to be used in the PDF", 0x1D, pdfLanguages, 0, true),
	NewHalfByteParameter("product-properties", "Properties of the product", 0x1E, false, false),
	NewBitParameter("light-on", "Control device light (if available)", 0x1E, 4, true),
	NewBitParameter("allow-cycle", "Allow to overwrite old data when the memory is full", 0x1E, 7, true),
	NewByteParameter("firmware-version", "Version number of the firmware", 0x1F, false),
	NewEnumParameter("start-mode", "Recording start mode", 0x20, startModes, 0, true),
	NewBitParameter("button-stop", "The device can be stopped by button", 0x20, 3, true),
	NewBitParameter("software-stop", "The device can be stopped by software", 0x20, 4, true),
	// Bit 5 of byte 0x20 reserved.
	NewBitParameter("repeat", "Allow a new recording to be started without having read the previous one", 0x20, 6, true),
	NewBitParameter("pause-allowed", "Authorize the recording to be paused (by double clicking the left key)", 0x20, 7, true),
	NewBitParameter("pdf-password-protected", "Protect PDF file with a password", 0x21, 0, true),
	NewEnumBitParameter("temperature-sensor-location", "Temperature sensor to be used", 0x21, 1, sensorLocations, true),
	NewEnumBitParameter("humidity-sensor-location", "Humidity sensor to be used", 0x21, 2, sensorLocations, true),
	NewEnumBitParameter("temperature-sensor-unit", "Unit for the temperature record", 0x21, 3, temperatureUnits, true),
	// Two bits wide in the device (NoAlarm/Single/Multiple); modeled as
	// a single bit until EnumBitParameter supports multi-bit fields.
	NewBitParameter("temperature-alarm-mode", "Operation mode of temperature alarm", 0x21, 4, true),
	NewBitParameter("humidity-alarm-mode", "Operation mode of humidity alarm", 0x21, 6, true),
	NewBitParameter("high-temperature-alarm3-type", "Alarm type for the third high temperature threshold", 0x22, 0, true),
	NewBitParameter("high-temperature-alarm2-type", "Alarm type for the second high temperature threshold", 0x22, 1, true),
	NewBitParameter("high-temperature-alarm1-type", "Alarm type for the first high temperature threshold", 0x22, 2, true),
	NewBitParameter("low-temperature-alarm1-type", "Alarm type for the first low temperature threshold", 0x22, 3, true),
	NewBitParameter("low-temperature-alarm2-type", "Alarm type for the second low temperature threshold", 0x22, 4, true),
	NewBitParameter("low-temperature-alarm3-type", "Alarm type for the third low temperature threshold", 0x22, 5, true),
	NewBitParameter("high-humidity-alarm-type", "Alarm type for the high humidity threshold", 0x22, 6, true),
	NewBitParameter("low-humidity-alarm-type", "Alarm type for the low humidity threshold", 0x22, 7, true),
	NewEnumParameter("exact-sensor-type", "Additional information on the temperature sensor type", 0x23, sensorTypes, 0, true),
	// Bits 2-3 of byte 0x23 reserved.
	NewHalfByteParameter("light-intensity", "Intensity of the light of the device", 0x23, true, true),
	NewTimeZoneParameter("timezone", "Timezone for the time parameters", 0x24, true),
	NewEnumParameter("device-state", "Current state of the device", 0x25, deviceStates, 0, false),
	NewEnumParameter("actual-stop-mode", "How the device actually stopped", 0x26, stopModes, 0, false),
	NewBitParameter("temporary-pdf", "Generate a PDF file even if the device is temporarily stopped", 0x26, 3, true),
	NewBitParameter("display-time", "Show elapsed time on the device display", 0x26, 4, true),
	NewHalfByteParameter("battery-level", "Current charging level of the battery", 0x27, false, false),
	NewBitParameter("csv", "Encode measurement data in PDF file", 0x27, 4, true),
	immutableParam(NewDateTimeParameter("configuration-time", "Time at which the device was last configured", 0x28, true)),
	NewDateTimeParameter("start-time", "Time at which the current recording started", 0x30, false),
	NewDateTimeParameter("stop-time", "Time at which the current recording stopped", 0x38, false),
	NewWordParameter("start-delay", "Delay to wait before starting in \"Timer\" start mode", 0x40, true),
	NewDWordParameter("device-capacity", "Device capacity (in records)", 0x42, false),
	NewWordParameter("record-number", "Number of records currently in memory", 0x48, false),
	NewTimeSpanParameter("interval", "Time span between samples", 0x4C, true),
	NewStringParameter("password", "Password used to protect PDF files", 0x80, 6, true),
	NewDateTimeParameter("device-time", "Current device time", 0x88, false),
	NewByteParameter("protocol-version", "Version number of the protocol", 0x95, false),
}

// immutableParam marks a parameter's device bytes as preserved across
// write cycles unless the caller targets it explicitly by name
// (spec.md §4.6).
func immutableParam(p Parameter) Parameter {
	switch v := p.(type) {
	case *DateTimeParameter:
		v.immutable = true
	default:
		panic("immutableParam: unsupported parameter type")
	}
	return p
}
