package metadata

/** Definition for jobs. Returns the result handed to OnComplete. */
type JobStart func(params interface{}) (interface{}, error)

/** Definition for completion of a job. */
type JobOnComplete func(result interface{})

/** Definition for failure of a job. */
type JobOnFailure func(params interface{}, err error)

/** @brief Describes a type of job */
type JobType int

const (
	/**
	 * @brief A general job that does not have any specific thread requirements.
	 */
	JOB_TYPE_GENERAL JobType = 0x02
	/**
	 * @brief Decoding of one city object geometry.
	 */
	JOB_TYPE_DECODE JobType = 0x08
)

/**
 * @brief Describes a job to be run by the job system.
 */
type JobTask struct {
	/** @brief The type of job. */
	JobType JobType
	/** @brief Data to be passed to the entry point upon execution. */
	InputParams interface{}
	/** @brief Invoked when the job starts. Required. */
	OnStart JobStart
	/** @brief Invoked with the result when the job succeeds. Optional. */
	OnComplete JobOnComplete
	/** @brief Invoked with the params and the error when the job fails. Optional. */
	OnFailure JobOnFailure
	/** @brief Invoked after OnComplete or OnFailure. Optional. */
	OnCompletionCallback func()
}
