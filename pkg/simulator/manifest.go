package simulator

import (
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/huanfeng/storesim/internal/errors"
	"github.com/shogo82148/androidbinary/apk"
)

// AppManifest is the part of a host app descriptor the simulator needs
type AppManifest struct {
	ProductID   uuid.UUID
	Title       string
	Description string
}

// ManifestSource reads the host app descriptor used by InitializeDefault
type ManifestSource interface {
	ReadManifest() (*AppManifest, error)
}

// ManifestSourceFor picks a manifest reader from the file extension:
// .apk files are read as Android packages, anything else as XML.
func ManifestSourceFor(path string) ManifestSource {
	if strings.EqualFold(filepath.Ext(path), ".apk") {
		return APKManifest(path)
	}
	return XMLManifestFile(path)
}

// XMLManifest reads an App element carrying ProductID, Title and Description
// attributes from an XML stream
type XMLManifest struct {
	Name   string
	Reader io.Reader
}

func (m XMLManifest) String() string {
	return m.Name
}

// ReadManifest implements ManifestSource
func (m XMLManifest) ReadManifest() (*AppManifest, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(m.Reader); err != nil {
		return nil, errors.NewManifestNotFoundError(m.Name, err)
	}
	if doc.Root() == nil {
		return nil, errors.NewManifestNotFoundError(m.Name, errNoRootElement)
	}

	app := doc.FindElement("//App")
	if app == nil {
		return nil, errors.NewManifestNotFoundError(m.Name, nil)
	}

	productID := app.SelectAttrValue("ProductID", "")
	id, err := uuid.Parse(strings.TrimSpace(productID))
	if err != nil {
		return nil, errors.NewMalformedManifestError("ProductID", productID, err)
	}

	return &AppManifest{
		ProductID:   id,
		Title:       app.SelectAttrValue("Title", ""),
		Description: app.SelectAttrValue("Description", ""),
	}, nil
}

// XMLManifestFile is the path of an XML app manifest such as WMAppManifest.xml
type XMLManifestFile string

func (m XMLManifestFile) String() string {
	return string(m)
}

// ReadManifest implements ManifestSource
func (m XMLManifestFile) ReadManifest() (*AppManifest, error) {
	file, err := os.Open(string(m))
	if err != nil {
		return nil, errors.NewManifestNotFoundError(string(m), err)
	}
	defer file.Close()

	return XMLManifest{Name: string(m), Reader: file}.ReadManifest()
}

// APKManifest is the path of an Android package used as the host descriptor.
// Android packages have no store GUID, so the app id is a name-based UUID of
// the package name and stays stable across builds.
type APKManifest string

func (m APKManifest) String() string {
	return string(m)
}

// ReadManifest implements ManifestSource
func (m APKManifest) ReadManifest() (*AppManifest, error) {
	if _, err := os.Stat(string(m)); err != nil {
		return nil, errors.NewManifestNotFoundError(string(m), err)
	}

	pkg, err := apk.OpenFile(string(m))
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewManifestNotFoundError(string(m), err)
		}
		return nil, errors.NewMalformedManifestError("AndroidManifest.xml", string(m), err)
	}
	defer pkg.Close()

	manifest := pkg.Manifest()

	packageName, err := manifest.Package.String()
	if err != nil || packageName == "" {
		if err == nil {
			err = fmt.Errorf("empty package name")
		}
		return nil, errors.NewMalformedManifestError("package", packageName, err)
	}

	title := packageName
	if label, err := manifest.App.Label.String(); err == nil && label != "" {
		title = label
	}

	return &AppManifest{
		ProductID: AppIDForPackage(packageName),
		Title:     title,
	}, nil
}

// AppIDForPackage derives the simulated app id of an Android package
func AppIDForPackage(packageName string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("android-app://"+packageName))
}
