package handlers

import (
	"net/url"
	"strconv"
	"time"

	config "github.com/skillup-app/skillup_backend/configs"
	"github.com/skillup-app/skillup_backend/utils"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
)

const uploadFolder = "skillup_resources"

// GenerateUploadSignature signs upload parameters so clients can push
// resource files and profile images straight to Cloudinary.
func GenerateUploadSignature(c *fiber.Ctx) error {
	cloudinaryURL := config.Config("CLOUDINARY_URL")
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to initialize Cloudinary")
	}

	parsedURL, err := url.Parse(cloudinaryURL)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to parse Cloudinary URL")
	}
	secret, _ := parsedURL.User.Password()

	paramsToSign, err := api.StructToParams(uploader.UploadParams{
		Folder: uploadFolder,
	})
	if err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to prepare signature params")
	}

	timestamp := time.Now().Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, secret)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to sign upload params")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, fiber.Map{
		"signature": signature,
		"timestamp": timestamp,
		"api_key":   cld.Config.Cloud.APIKey,
		"folder":    uploadFolder,
	}, "Upload signature generated")
}
