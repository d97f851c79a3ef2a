package elitech

/*------------------------------------------------------------------
 *
 * Purpose:	The catalog of supported USB vendor/product ids, plus
 *		enumeration of attached hidraw nodes that match it.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jochenvg/go-udev"
	"gopkg.in/yaml.v3"
)

// DeviceDescriptor names one supported vendor/product id pair.
type DeviceDescriptor struct {
	VendorID  uint16 `yaml:"vendor_id"`
	ProductID uint16 `yaml:"product_id"`
	Name      string `yaml:"name"`
}

// supportedDevices is the built-in allow-list. A device outside this
// list (and any catalog loaded via LoadCatalogOverride) is
// unsupported: Enumerate, and so "device list", simply omits it.
var supportedDevices = []DeviceDescriptor{
	{0x04d8, 0x0033, "Elitech RC-51"},
	{0x04d8, 0x0133, "Elitech RC-51H"},
	{0x04d8, 0x3005, "Elitech RC-5+"},
	{0x04d8, 0x0037, "Elitech RC-55"},
	{0x04d8, 0x1014, "Elitech TemLog 20"},
	{0x04d8, 0x1114, "Elitech TemLog 20H"},
	{0x04d8, 0x0012, "Elitech RC-18"},
	{0x04d8, 0x0013, "Elitech RC-19"},
	{0x04d8, 0x1005, "Elitech ST5"},
	{0x0416, 0x3006, "Elitech LogEt 6"},
	{0x0416, 0x4008, "Elitech LogEt 8"},
	{0x0416, 0x4308, "Elitech LogEt 8 Life Science"},
	{0x0416, 0x3008, "Elitech LogEt 8 Food"},
	{0x04d8, 0x2033, "Elitech MSL-51"},
	{0x04d8, 0x2133, "Elitech MSL-51H"},
	{0x0416, 0x0001, "Elitech LogEt 1"},
	{0x0416, 0x0101, "Elitech LogEt 1TH"},
	{0x0416, 0x0201, "Elitech LogEt 1Bio"},
	{0x04d8, 0xF564, "Unknown"},
	{0x0416, 0x3A01, "Unknown"},
	{0x464d, 0x0402, "Unknown"},
}

// DefaultDeviceCatalog returns the built-in vendor/product allow-list.
func DefaultDeviceCatalog() []DeviceDescriptor {
	return append([]DeviceDescriptor{}, supportedDevices...)
}

// LoadCatalogOverride reads a YAML file of the same shape as
// supportedDevices and appends its entries, letting an operator add a
// locally encountered device without a recompile.
func LoadCatalogOverride(path string) ([]DeviceDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read device catalog override %s: %w", path, err)
	}
	var extra []DeviceDescriptor
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("parse device catalog override %s: %w", path, err)
	}
	return append(append([]DeviceDescriptor{}, supportedDevices...), extra...), nil
}

// lookupDescriptor finds the catalog entry for a vendor/product pair.
func lookupDescriptor(catalog []DeviceDescriptor, vendorID, productID uint16) (DeviceDescriptor, bool) {
	for _, d := range catalog {
		if d.VendorID == vendorID && d.ProductID == productID {
			return d, true
		}
	}
	return DeviceDescriptor{}, false
}

// AttachedDevice is one hidraw node found on the system, paired with
// its catalog entry.
type AttachedDevice struct {
	Path       string
	VendorID   uint16
	ProductID  uint16
	Descriptor DeviceDescriptor
}

// Enumerate walks /sys/class/hidraw via udev, resolving each node's
// parent USB device for its vendor/product id, and returns the ones
// matching catalog.
func Enumerate(catalog []DeviceDescriptor) ([]AttachedDevice, error) {
	u := udev.Udev{}
	e := u.NewEnumerate()
	if err := e.AddMatchSubsystem("hidraw"); err != nil {
		return nil, fmt.Errorf("enumerate hidraw: %w", err)
	}
	devices, err := e.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerate hidraw: %w", err)
	}

	var out []AttachedDevice
	for _, d := range devices {
		vendorID, productID, ok := resolveUSBIds(d)
		if !ok {
			continue
		}
		desc, ok := lookupDescriptor(catalog, vendorID, productID)
		if !ok {
			continue
		}
		node := d.Devnode()
		if node == "" {
			node = filepath.Join("/dev", filepath.Base(d.Syspath()))
		}
		out = append(out, AttachedDevice{Path: node, VendorID: vendorID, ProductID: productID, Descriptor: desc})
	}
	return out, nil
}

// resolveUSBIds walks up the udev device tree from a hidraw node to
// the USB device that exposes idVendor/idProduct attributes.
func resolveUSBIds(d *udev.Device) (uint16, uint16, bool) {
	for dev := d; dev != nil; dev = dev.Parent() {
		vendorID, err1 := readSysfsHex(filepath.Join(dev.Syspath(), "idVendor"))
		productID, err2 := readSysfsHex(filepath.Join(dev.Syspath(), "idProduct"))
		if err1 == nil && err2 == nil {
			return vendorID, productID, true
		}
	}
	return 0, 0, false
}
