package common

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"pgme/src/db"
	awslib "pgme/src/lib/aws"
	"pgme/src/models"
	"pgme/src/types"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

func toJSONBArray(values []string) types.JSONBArray {
	arr := make(types.JSONBArray, 0, len(values))
	for _, v := range values {
		arr = append(arr, v)
	}
	return arr
}

func validateProperty(property *models.Property) error {
	if strings.TrimSpace(property.Name) == "" {
		return types.NewValidationError("property name is required")
	}
	if strings.TrimSpace(property.City) == "" {
		return types.NewValidationError("city is required")
	}
	if property.Rent <= 0 {
		return types.NewValidationError("valid rent amount is required")
	}
	if strings.TrimSpace(property.OwnerName) == "" {
		return types.NewValidationError("owner name is required")
	}
	if strings.TrimSpace(property.OwnerPhone) == "" {
		return types.NewValidationError("owner phone is required")
	}
	return nil
}

func CreateProperty(body *types.CreatePropertyRequestBody) (*models.Property, error) {
	ownerID, err := uuid.Parse(body.OwnerID)
	if err != nil {
		return nil, types.NewValidationError("invalid owner id: %s", body.OwnerID)
	}
	property := models.Property{
		Name:                 body.Name,
		Description:          body.Description,
		City:                 body.City,
		Area:                 body.Area,
		Rent:                 body.Rent,
		Rooms:                body.Rooms,
		RoomTypes:            toJSONBArray(body.RoomTypes),
		AreaInSqft:           body.AreaInSqft,
		Floor:                body.Floor,
		TotalFloors:          body.TotalFloors,
		BuildingType:         body.BuildingType,
		Deposit:              body.Deposit,
		Maintenance:          body.Maintenance,
		OtherCharges:         body.OtherCharges,
		MinStay:              body.MinStay,
		MaxStay:              body.MaxStay,
		Amenities:            toJSONBArray(body.Amenities),
		Rules:                toJSONBArray(body.Rules),
		OwnerID:              ownerID,
		OwnerName:            body.OwnerName,
		OwnerPhone:           body.OwnerPhone,
		OwnerEmail:           body.OwnerEmail,
		PreferredContactTime: body.PreferredContactTime,
		LocationDetails:      body.LocationDetails,
		Category:             body.Category,
		ApprovalStatus:       types.APPROVAL_PENDING,
	}
	if err := validateProperty(&property); err != nil {
		return nil, err
	}
	if err := db.GetDb().Create(&property).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

func findProperty(propertyID uuid.UUID) (*models.Property, error) {
	var property models.Property
	err := db.GetDb().
		Model(&models.Property{}).
		Where("id = ?", propertyID).
		First(&property).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &types.NotFoundError{Resource: "Property", ID: propertyID.String(), Err: err}
		}
		return nil, err
	}
	return &property, nil
}

func GetPropertyByID(propertyID uuid.UUID) (*models.Property, error) {
	return findProperty(propertyID)
}

func GetAllProperties() ([]models.Property, error) {
	var properties []models.Property
	err := db.GetDb().Model(&models.Property{}).Find(&properties).Error
	return properties, err
}

func GetPropertiesByApproval(status types.ApprovalStatus) ([]models.Property, error) {
	var properties []models.Property
	err := db.GetDb().
		Model(&models.Property{}).
		Where("approval_status = ?", status).
		Find(&properties).
		Error
	return properties, err
}

func GetPropertiesByOwner(ownerID uuid.UUID) ([]models.Property, error) {
	var properties []models.Property
	err := db.GetDb().
		Model(&models.Property{}).
		Where("owner_id = ?", ownerID).
		Find(&properties).
		Error
	return properties, err
}

func SearchProperties(filters *types.PropertyQueryFilters) ([]models.Property, error) {
	q := db.GetDb().Model(&models.Property{}).Where("approval_status = ?", types.APPROVAL_APPROVED)
	if filters.City != "" {
		q = q.Where("city = ?", filters.City)
	}
	if filters.Area != "" {
		q = q.Where("area = ?", filters.Area)
	}
	if filters.BuildingType != "" {
		q = q.Where("building_type = ?", filters.BuildingType)
	}
	if filters.Category != "" {
		q = q.Where("category = ?", filters.Category)
	}
	if filters.MinRent > 0 {
		q = q.Where("rent >= ?", filters.MinRent)
	}
	if filters.MaxRent > 0 {
		q = q.Where("rent <= ?", filters.MaxRent)
	}
	var properties []models.Property
	err := q.Find(&properties).Error
	return properties, err
}

func UpdateProperty(propertyID uuid.UUID, body *types.CreatePropertyRequestBody) (*models.Property, error) {
	property, err := findProperty(propertyID)
	if err != nil {
		return nil, err
	}
	property.Name = body.Name
	property.Description = body.Description
	property.City = body.City
	property.Area = body.Area
	property.Rent = body.Rent
	property.Rooms = body.Rooms
	property.RoomTypes = toJSONBArray(body.RoomTypes)
	property.AreaInSqft = body.AreaInSqft
	property.Floor = body.Floor
	property.TotalFloors = body.TotalFloors
	property.BuildingType = body.BuildingType
	property.Deposit = body.Deposit
	property.Maintenance = body.Maintenance
	property.OtherCharges = body.OtherCharges
	property.MinStay = body.MinStay
	property.MaxStay = body.MaxStay
	property.Amenities = toJSONBArray(body.Amenities)
	property.Rules = toJSONBArray(body.Rules)
	property.OwnerName = body.OwnerName
	property.OwnerPhone = body.OwnerPhone
	property.OwnerEmail = body.OwnerEmail
	property.PreferredContactTime = body.PreferredContactTime
	property.LocationDetails = body.LocationDetails
	property.Category = body.Category

	if err := validateProperty(property); err != nil {
		return nil, err
	}
	if err := db.GetDb().Save(property).Error; err != nil {
		return nil, err
	}
	return property, nil
}

// ApproveProperty moves a pending listing to APPROVED, recording who
// signed it off.
func ApproveProperty(propertyID uuid.UUID, adminName, approvalNote string) (*models.Property, error) {
	property, err := findProperty(propertyID)
	if err != nil {
		return nil, err
	}
	if property.ApprovalStatus != types.APPROVAL_PENDING {
		return nil, &types.InvalidTransitionError{Entity: "property", From: string(property.ApprovalStatus), To: string(types.APPROVAL_APPROVED)}
	}
	now := time.Now()
	property.ApprovalStatus = types.APPROVAL_APPROVED
	property.ApprovedBy = adminName
	property.ApprovalNote = approvalNote
	property.ApprovedAt = &now
	if err := db.GetDb().Save(property).Error; err != nil {
		return nil, err
	}
	return property, nil
}

func RejectProperty(propertyID uuid.UUID, rejectionReason string) (*models.Property, error) {
	property, err := findProperty(propertyID)
	if err != nil {
		return nil, err
	}
	if property.ApprovalStatus != types.APPROVAL_PENDING {
		return nil, &types.InvalidTransitionError{Entity: "property", From: string(property.ApprovalStatus), To: string(types.APPROVAL_REJECTED)}
	}
	property.ApprovalStatus = types.APPROVAL_REJECTED
	property.RejectionReason = rejectionReason
	if err := db.GetDb().Save(property).Error; err != nil {
		return nil, err
	}
	return property, nil
}

func DeleteProperty(propertyID uuid.UUID, bucket string) error {
	property, err := findProperty(propertyID)
	if err != nil {
		return err
	}
	for _, image := range property.Images {
		url, ok := image.(string)
		if !ok {
			continue
		}
		if err := awslib.S3DeleteImageByURL(bucket, url); err != nil {
			log.Printf("Could not delete image %s: %s\n", url, err.Error())
		}
	}
	return db.GetDb().Delete(property).Error
}

// UploadPropertyImages stores the given images and appends their URLs to
// the listing, up to maxImages in total.
func UploadPropertyImages(propertyID uuid.UUID, bucket string, maxImages int, images map[string]io.Reader) (*models.Property, error) {
	property, err := findProperty(propertyID)
	if err != nil {
		return nil, err
	}
	if len(property.Images)+len(images) > maxImages {
		return nil, types.NewValidationError("maximum number of images exceeded, maximum allowed: %d", maxImages)
	}
	for filename, reader := range images {
		key := fmt.Sprintf("properties/%s/%d-%s", property.ID, time.Now().UnixNano(), slug.Make(filename))
		url, err := awslib.S3UploadImage(bucket, key, reader, "image/jpeg")
		if err != nil {
			return nil, err
		}
		property.Images = append(property.Images, url)
	}
	if err := db.GetDb().Save(property).Error; err != nil {
		return nil, err
	}
	return property, nil
}

func DeletePropertyImages(propertyID uuid.UUID, bucket string) (*models.Property, error) {
	property, err := findProperty(propertyID)
	if err != nil {
		return nil, err
	}
	for _, image := range property.Images {
		url, ok := image.(string)
		if !ok {
			continue
		}
		if err := awslib.S3DeleteImageByURL(bucket, url); err != nil {
			log.Printf("Could not delete image %s: %s\n", url, err.Error())
		}
	}
	property.Images = nil
	if err := db.GetDb().Save(property).Error; err != nil {
		return nil, err
	}
	return property, nil
}

func UpdatePropertyLocation(propertyID uuid.UUID, locationDetails string) (*models.Property, error) {
	property, err := findProperty(propertyID)
	if err != nil {
		return nil, err
	}
	property.LocationDetails = locationDetails
	if err := db.GetDb().Save(property).Error; err != nil {
		return nil, err
	}
	return property, nil
}
