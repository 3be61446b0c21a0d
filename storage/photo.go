package storage

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"wedfest/domain"
	"wedfest/errs"
)

// PhotoStorage stores uploaded photo files in the filesystem under
// domain.UploadsBaseDir. It implements the domain.PhotoStorage interface.
type PhotoStorage struct {
	photoFileValidator
}

// photoFileValidator runs validations on an incoming photo file.
// On success, it passes the file on to photoFileDisk.
// Otherwise, it returns the error of the validation that has failed.
type photoFileValidator struct {
	photoFileDisk
}

// photoFileDisk writes and removes the actual files.
// It assumes that the file has been validated.
type photoFileDisk struct {
	baseDir string
}

// NewPhotoStorage returns an instance of PhotoStorage.
func NewPhotoStorage() *PhotoStorage {
	return &PhotoStorage{
		photoFileValidator{
			photoFileDisk{
				baseDir: domain.UploadsBaseDir,
			},
		},
	}
}

// Ensure the PhotoStorage struct properly implements the domain.PhotoStorage interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.PhotoStorage = &PhotoStorage{}

// Save runs validations needed for storing a new photo file.
func (pv *photoFileValidator) Save(file *domain.PhotoFile) error {
	err := runPhotoFileValFns(file,
		pv.extensionValid,
		pv.contentTypeValid,
		pv.contentTypeExtensionMatch,
		pv.belowMaxSize,
		pv.fileNameUnique)
	if err != nil {
		return err
	}
	return pv.photoFileDisk.Save(file)
}

// runPhotoFileValFns runs any number of functions of type photoFileValFn on the passed in PhotoFile object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runPhotoFileValFns(file *domain.PhotoFile, fns ...photoFileValFn) error {
	for _, fn := range fns {
		if err := fn(file); err != nil {
			return err
		}
	}
	return nil
}

// A photoFileValFn is any function that takes in a pointer to a domain.PhotoFile object and returns an error.
type photoFileValFn func(file *domain.PhotoFile) error

// extensionValid makes sure the upload has a jpeg or png extension,
// normalizing .jpg to .jpeg.
func (pv *photoFileValidator) extensionValid(file *domain.PhotoFile) error {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return errs.Errorf(errs.EINVALID,
			"Photo %s invalid extension, must be .jpeg or .png.", file.Filename)
	}
	if ext == ".jpg" {
		ext = ".jpeg"
	}
	file.Extension = ext
	return nil
}

// contentTypeValid makes sure the actual file content is a jpeg or png,
// regardless of what the filename claims.
func (pv *photoFileValidator) contentTypeValid(file *domain.PhotoFile) error {
	buffer := make([]byte, 512)
	_, err := file.File.Read(buffer)
	if err != nil && err != io.EOF {
		return err
	}
	if err = resetReaderPosition(file); err != nil {
		return err
	}
	contentType := http.DetectContentType(buffer)
	if contentType != "image/jpeg" && contentType != "image/png" {
		return errs.Errorf(errs.EINVALID,
			"Photo %s invalid content-type, must be image/jpeg or image/png.", file.Filename)
	}
	file.ContentType = contentType
	return nil
}

// contentTypeExtensionMatch makes sure extension and content agree.
func (pv *photoFileValidator) contentTypeExtensionMatch(file *domain.PhotoFile) error {
	contentType := strings.TrimPrefix(file.ContentType, "image/")
	ext := strings.TrimPrefix(file.Extension, ".")
	if contentType != ext {
		return errs.Errorf(errs.EINVALID,
			"Photo %s content-type %s does not match extension %s.", file.Filename, file.ContentType, file.Extension)
	}
	return nil
}

// belowMaxSize makes sure the file does not exceed the upload size limit.
func (pv *photoFileValidator) belowMaxSize(file *domain.PhotoFile) error {
	size, err := file.File.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	if err = resetReaderPosition(file); err != nil {
		return err
	}
	if size > domain.MaxUploadSize {
		return errs.Errorf(errs.EINVALID,
			"Photo %s exceeds upload size limit of %dMB.", file.Filename, domain.MaxUploadSize/1000000)
	}
	return nil
}

// fileNameUnique replaces the client's filename with a timestamp-based one,
// so uploads can never collide or traverse paths.
func (pv *photoFileValidator) fileNameUnique(file *domain.PhotoFile) error {
	timestamp := time.Now().UnixMicro()
	file.Filename = strconv.FormatInt(timestamp, 10) + file.Extension
	return nil
}

// resetReaderPosition seeks back to the beginning of the file, so that
// subsequent reads will work.
func resetReaderPosition(file *domain.PhotoFile) error {
	_, err := file.File.Seek(0, io.SeekStart)
	return err
}

// Save writes the validated file to disk under the base directory.
func (pd *photoFileDisk) Save(file *domain.PhotoFile) error {
	if err := os.MkdirAll(pd.baseDir, 0755); err != nil {
		return err
	}
	dst, err := os.Create(filepath.Join(pd.baseDir, file.Filename))
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, file.File)
	return err
}

// Remove deletes a stored photo file. A file that is already gone is not an
// error; the row is authoritative, the file is a payload.
func (pd *photoFileDisk) Remove(filename string) error {
	err := os.Remove(filepath.Join(pd.baseDir, filepath.Base(filename)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
